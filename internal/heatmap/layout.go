package heatmap

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/control-frameworks/attackmap/internal/mappings"
	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// PlannedLayer pairs a layer document with its relative output path.
type PlannedLayer struct {
	Path  string
	Layer Layer
}

// FrameworkLayers builds the framework overview layer, one overview layer per
// control family, and one layer per individual control. Layers without any
// mapped technique are suppressed.
func FrameworkLayers(controls, relationships, attack *stix.Store, domain, framework string) ([]PlannedLayer, error) {
	var planned []PlannedLayer

	overview, err := mappings.ScoreTechniques(controls, relationships, attack)
	if err != nil {
		return nil, err
	}
	if len(overview) > 0 {
		planned = append(planned, PlannedLayer{
			Path: fmt.Sprintf("%s-overview.json", framework),
			Layer: NewLayer(
				fmt.Sprintf("%s overview", framework),
				fmt.Sprintf("%s heatmap overview of control mappings, where scores are the number of associated controls", framework),
				domain,
				overview,
			),
		})
	}

	families, err := GroupByFamily(controls)
	if err != nil {
		return nil, err
	}
	for _, family := range families {
		layers, err := familyLayers(family, relationships, attack, domain, framework)
		if err != nil {
			return nil, err
		}
		planned = append(planned, layers...)
	}
	return planned, nil
}

// familyLayers builds the overview layer of a single family plus one layer
// per member control.
func familyLayers(family Family, relationships, attack *stix.Store, domain, framework string) ([]PlannedLayer, error) {
	var planned []PlannedLayer

	inFamily := stix.NewStore(family.Controls...)
	techniques, err := mappings.ScoreTechniques(inFamily, relationships, attack)
	if err != nil {
		return nil, err
	}
	if len(techniques) == 0 {
		return nil, nil
	}

	planned = append(planned, PlannedLayer{
		Path: filepath.Join("by family", family.Label, fmt.Sprintf("%s-overview.json", family.Code)),
		Layer: NewLayer(
			fmt.Sprintf("%s overview", family.Label),
			fmt.Sprintf("%s heatmap for controls in the %s family, where scores are the number of associated controls", framework, family.Label),
			domain,
			techniques,
		),
	})

	for _, control := range family.Controls {
		controlID, err := control.CanonicalID()
		if err != nil {
			return nil, err
		}
		single := stix.NewStore(control)
		mapped, err := mappings.ScoreTechniques(single, relationships, attack)
		if err != nil {
			return nil, err
		}
		if len(mapped) == 0 {
			continue
		}
		planned = append(planned, PlannedLayer{
			Path: filepath.Join("by family", family.Label, strings.ReplaceAll(controlID, " ", "_")+".json"),
			Layer: NewLayer(
				fmt.Sprintf("%s mappings", controlID),
				fmt.Sprintf("%s %s mappings", framework, controlID),
				domain,
				mapped,
			),
		})
	}
	return planned, nil
}

// PropertyLayers builds one layer per observed value of the given custom
// metadata property. Values without any mapped technique are suppressed.
func PropertyLayers(controls, relationships, attack *stix.Store, domain, framework, property string) ([]PlannedLayer, error) {
	propertyName := strings.TrimPrefix(property, stix.ExtensionPrefix)
	groups, isListType := GroupByProperty(controls, property)

	verb := "is"
	if isListType {
		verb = "includes"
	}

	var planned []PlannedLayer
	for _, group := range groups {
		ofValue := stix.NewStore(group.Controls...)
		techniques, err := mappings.ScoreTechniques(ofValue, relationships, attack)
		if err != nil {
			return nil, err
		}
		if len(techniques) == 0 {
			continue
		}
		planned = append(planned, PlannedLayer{
			Path: filepath.Join(fmt.Sprintf("by %s", propertyName), group.Value+".json"),
			Layer: NewLayer(
				fmt.Sprintf("%s=%s", propertyName, group.Value),
				fmt.Sprintf("techniques where the %s of associated controls %s %s", propertyName, verb, group.Value),
				domain,
				techniques,
			),
		})
	}
	return planned, nil
}

// WriteLayers writes every planned layer as an indented JSON document under
// the output root, creating directories as needed.
func WriteLayers(outputRoot string, planned []PlannedLayer) error {
	for _, p := range planned {
		data, err := json.MarshalIndent(p.Layer, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to serialize layer %q: %w", p.Path, err)
		}
		if err := files.WriteFileInFolder(filepath.Join(outputRoot, p.Path), data); err != nil {
			return err
		}
	}
	return nil
}
