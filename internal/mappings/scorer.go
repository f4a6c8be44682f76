package mappings

import (
	"sort"
	"strings"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// ScoredTechnique is a technique entry of a heatmap layer: the score is the
// number of distinct controls mapping to the technique, and the comment lists
// those controls.
type ScoredTechnique struct {
	TechniqueID string `json:"techniqueID"`
	Score       int    `json:"score"`
	Comment     string `json:"comment"`
}

// ScoreTechniques aggregates the mapping relationships whose source control
// is a member of the controls store into per-technique scores. Mappings from
// controls outside the store are skipped; this is how callers scope scoring
// to a subset of the framework. Duplicate edges between the same control and
// technique count once. Techniques are returned sorted by ID.
func ScoreTechniques(controls *stix.Store, mappings, attack *stix.Store) ([]ScoredTechnique, error) {
	techniqueToControls := make(map[string]map[string]struct{})

	for _, mapping := range mappings.Query(stix.TypeEquals(stix.TypeRelationship)) {
		control, ok := controls.Get(mapping.SourceRef)
		if !ok {
			// mapping not relevant to this subset of controls
			continue
		}
		technique, ok := attack.Get(mapping.TargetRef)
		if !ok {
			return nil, errors.NewUnresolvedReference(mapping.TargetRef, StoreAttack)
		}

		controlID, err := control.CanonicalID()
		if err != nil {
			return nil, err
		}
		techniqueID, err := technique.CanonicalID()
		if err != nil {
			return nil, err
		}

		if techniqueToControls[techniqueID] == nil {
			techniqueToControls[techniqueID] = make(map[string]struct{})
		}
		techniqueToControls[techniqueID][controlID] = struct{}{}
	}

	scored := make([]ScoredTechnique, 0, len(techniqueToControls))
	for techniqueID, controlIDs := range techniqueToControls {
		if len(controlIDs) == 0 {
			continue
		}
		ids := make([]string, 0, len(controlIDs))
		for id := range controlIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		scored = append(scored, ScoredTechnique{
			TechniqueID: techniqueID,
			Score:       len(controlIDs),
			Comment:     "Mitigated by " + strings.Join(ids, ", "),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].TechniqueID < scored[j].TechniqueID
	})
	return scored, nil
}
