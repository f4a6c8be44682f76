// Package mappings resolves control-to-technique relationships against the
// loaded bundles and aggregates them into per-technique scores.
package mappings

import (
	"sort"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// Store names used in unresolved-reference errors.
const (
	StoreControls = "controls"
	StoreAttack   = "ATT&CK"
)

// ResolvedMapping is a single control-to-technique mapping with both
// endpoints resolved to their framework identifiers.
type ResolvedMapping struct {
	ControlID     string
	ControlName   string
	MappingType   string
	TechniqueID   string
	TechniqueName string
}

// Resolve looks up every mapping relationship against the controls and
// ATT&CK stores. A reference that cannot be resolved is a configuration
// error and fails the whole resolution; a report with silently dropped rows
// would be worse than no report. The result is sorted ascending by control
// ID, then technique ID.
func Resolve(controls, attack, mappings *stix.Store) ([]ResolvedMapping, error) {
	relationships := mappings.Query(stix.TypeEquals(stix.TypeRelationship))
	resolved := make([]ResolvedMapping, 0, len(relationships))

	for _, mapping := range relationships {
		control, ok := controls.Get(mapping.SourceRef)
		if !ok {
			return nil, errors.NewUnresolvedReference(mapping.SourceRef, StoreControls)
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

		resolved = append(resolved, ResolvedMapping{
			ControlID:     controlID,
			ControlName:   control.Name,
			MappingType:   mapping.RelationshipType,
			TechniqueID:   techniqueID,
			TechniqueName: technique.Name,
		})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].ControlID != resolved[j].ControlID {
			return resolved[i].ControlID < resolved[j].ControlID
		}
		return resolved[i].TechniqueID < resolved[j].TechniqueID
	})
	return resolved, nil
}
