// Package heatmap builds ATT&CK Navigator layer documents from control
// mappings: one overview layer, one per control family, one per control, and
// one per value of every custom metadata property.
package heatmap

import (
	"github.com/control-frameworks/attackmap/internal/mappings"
)

// LayerVersion is the Navigator layer schema version the documents follow.
const LayerVersion = "3.0"

// SortScoreDescending is the Navigator sorting directive for descending score
// order, required by the layer schema.
const SortScoreDescending = 3

// Gradient colors. The intensity pair spans the observed score range; the
// neutral pair is used when all techniques share the same score, where a
// zero-width gradient would render as a single flat color.
var (
	intensityColors = []string{"#ACD0E6", "#08336E"}
	neutralColors   = []string{"#ffffff", "#66b1ff"}
)

// Gradient describes how the Navigator colors technique scores.
type Gradient struct {
	Colors   []string `json:"colors"`
	MinValue int      `json:"minValue"`
	MaxValue int      `json:"maxValue"`
}

// Layer is a self-describing Navigator heatmap document.
type Layer struct {
	Name        string                     `json:"name"`
	Version     string                     `json:"version"`
	Sorting     int                        `json:"sorting"`
	Description string                     `json:"description"`
	Domain      string                     `json:"domain"`
	Techniques  []mappings.ScoredTechnique `json:"techniques"`
	Gradient    Gradient                   `json:"gradient"`
}

// NewLayer wraps a list of scored techniques into a layer document. The
// gradient bounds follow the observed score range; when every technique has
// the same score the low bound is forced to 0 and the neutral colors are
// selected instead.
func NewLayer(name, description, domain string, techniques []mappings.ScoredTechnique) Layer {
	minScore, maxScore := 0, 100
	if len(techniques) > 0 {
		minScore, maxScore = techniques[0].Score, techniques[0].Score
		for _, t := range techniques[1:] {
			if t.Score < minScore {
				minScore = t.Score
			}
			if t.Score > maxScore {
				maxScore = t.Score
			}
		}
	}

	colors := intensityColors
	if maxScore-minScore == 0 {
		minScore = 0
		colors = neutralColors
	}

	return Layer{
		Name:        name,
		Version:     LayerVersion,
		Sorting:     SortScoreDescending,
		Description: description,
		Domain:      domain,
		Techniques:  techniques,
		Gradient: Gradient{
			Colors:   colors,
			MinValue: minScore,
			MaxValue: maxScore,
		},
	}
}
