// Package parser builds the controls and mappings STIX bundles from
// tab-separated framework source files.
package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// subcontrolPattern matches enhancement identifiers like "AC-2(1)" and
// captures the parent control identifier.
var subcontrolPattern = regexp.MustCompile(`^(\w+-\d+)\(\d+\)$`)

// ExistingIDs remembers the STIX identifiers of a previous build so that
// regenerating the bundles does not churn IDs.
type ExistingIDs struct {
	objects       map[string]string            // external id -> stix id
	relationships map[string]map[string]string // relationship type -> "src---dst" -> stix id
}

// NewExistingIDs returns an empty identifier registry.
func NewExistingIDs() *ExistingIDs {
	return &ExistingIDs{
		objects:       make(map[string]string),
		relationships: make(map[string]map[string]string),
	}
}

// HarvestIDs reads a previously generated bundle and records its identifiers.
// A missing file yields an empty registry: every ID will be minted fresh.
func HarvestIDs(bundlePath string) (*ExistingIDs, error) {
	ids := NewExistingIDs()
	if _, err := os.Stat(bundlePath); os.IsNotExist(err) {
		return ids, nil
	}

	bundle, err := stix.LoadBundleFile(bundlePath)
	if err != nil {
		return nil, err
	}
	for _, obj := range bundle.Objects {
		if obj.Type == stix.TypeRelationship {
			ids.recordRelationship(obj.RelationshipType, obj.SourceRef, obj.TargetRef, obj.ID)
			continue
		}
		externalID, err := obj.CanonicalID()
		if err != nil {
			return nil, err
		}
		ids.objects[externalID] = obj.ID
	}
	return ids, nil
}

func (e *ExistingIDs) recordRelationship(relType, sourceRef, targetRef, id string) {
	if e.relationships[relType] == nil {
		e.relationships[relType] = make(map[string]string)
	}
	e.relationships[relType][sourceRef+"---"+targetRef] = id
}

// ObjectID returns the remembered STIX ID for an external identifier, or
// mints a new one of the given type.
func (e *ExistingIDs) ObjectID(externalID, typeTag string) string {
	if id, ok := e.objects[externalID]; ok {
		return id
	}
	id := stix.NewID(typeTag)
	e.objects[externalID] = id
	return id
}

// RelationshipID returns the remembered STIX ID for a relationship between
// two objects, or mints a new one.
func (e *ExistingIDs) RelationshipID(relType, sourceRef, targetRef string) string {
	if ids, ok := e.relationships[relType]; ok {
		if id, ok := ids[sourceRef+"---"+targetRef]; ok {
			return id
		}
	}
	id := stix.NewID(stix.TypeRelationship)
	e.recordRelationship(relType, sourceRef, targetRef, id)
	return id
}

// readTSV reads a tab-separated file, skipping the header row. Rows may have
// trailing optional columns.
func readTSV(path string, minColumns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%q is empty, expected a header row", path)
	}

	rows := records[1:]
	for i, row := range rows {
		if len(row) < minColumns {
			return nil, fmt.Errorf("%q row %d has %d columns, expected at least %d", path, i+2, len(row), minColumns)
		}
	}
	return rows, nil
}

// ParseControls reads a controls TSV (columns: ID, name, family, description,
// related controls) and builds the controls bundle. Enhancement identifiers
// such as "AC-2(1)" gain a subcontrol-of relationship to their parent control
// when the parent is present, and each entry of the comma-separated related
// controls column gains a related-to relationship when it resolves.
func ParseControls(tsvPath, framework string, ids *ExistingIDs) (*stix.Bundle, error) {
	rows, err := readTSV(tsvPath, 3)
	if err != nil {
		return nil, err
	}

	byExternalID := make(map[string]*stix.Object, len(rows))
	objects := make([]*stix.Object, 0, len(rows))
	for _, row := range rows {
		externalID := strings.TrimSpace(row[0])
		control := &stix.Object{
			ID:   ids.ObjectID(externalID, stix.TypeCourseOfAction),
			Type: stix.TypeCourseOfAction,
			Name: strings.TrimSpace(row[1]),
			ExternalReferences: []stix.ExternalReference{
				{SourceName: framework, ExternalID: externalID},
			},
			Extensions: map[string]interface{}{
				"x_mitre_family": strings.TrimSpace(row[2]),
			},
		}
		if len(row) > 3 {
			control.Description = strings.TrimSpace(row[3])
		}
		byExternalID[externalID] = control
		objects = append(objects, control)
	}

	// attach enhancements to their parent controls
	for _, row := range rows {
		externalID := strings.TrimSpace(row[0])
		match := subcontrolPattern.FindStringSubmatch(externalID)
		if match == nil {
			continue
		}
		parent, ok := byExternalID[match[1]]
		if !ok {
			continue
		}
		child := byExternalID[externalID]
		objects = append(objects, &stix.Object{
			ID:               ids.RelationshipID(stix.RelationshipSubcontrolOf, child.ID, parent.ID),
			Type:             stix.TypeRelationship,
			RelationshipType: stix.RelationshipSubcontrolOf,
			SourceRef:        child.ID,
			TargetRef:        parent.ID,
		})
	}

	// link related controls
	for _, row := range rows {
		if len(row) < 5 || strings.TrimSpace(row[4]) == "" {
			continue
		}
		control := byExternalID[strings.TrimSpace(row[0])]
		for _, relatedID := range strings.Split(row[4], ",") {
			related, ok := byExternalID[strings.TrimSpace(relatedID)]
			if !ok {
				continue
			}
			objects = append(objects, &stix.Object{
				ID:               ids.RelationshipID(stix.RelationshipRelatedTo, control.ID, related.ID),
				Type:             stix.TypeRelationship,
				RelationshipType: stix.RelationshipRelatedTo,
				SourceRef:        control.ID,
				TargetRef:        related.ID,
			})
		}
	}

	return stix.NewBundle(objects), nil
}

// ParseMappings reads a mappings TSV (columns: control ID, technique ID) and
// builds the mitigates relationship bundle. Both endpoints must resolve: the
// control against the parsed controls bundle and the technique against the
// ATT&CK store by its external identifier.
func ParseMappings(tsvPath string, controls *stix.Bundle, attack *stix.Store, ids *ExistingIDs) (*stix.Bundle, error) {
	rows, err := readTSV(tsvPath, 2)
	if err != nil {
		return nil, err
	}

	controlIDs := make(map[string]string)
	for _, obj := range controls.Objects {
		if obj.Type != stix.TypeCourseOfAction {
			continue
		}
		externalID, err := obj.CanonicalID()
		if err != nil {
			return nil, err
		}
		controlIDs[externalID] = obj.ID
	}

	techniqueIDs := make(map[string]string)
	for _, obj := range attack.Query(stix.TypeEquals(stix.TypeAttackPattern)) {
		externalID, err := obj.CanonicalID()
		if err != nil {
			return nil, err
		}
		techniqueIDs[externalID] = obj.ID
	}

	objects := make([]*stix.Object, 0, len(rows))
	for _, row := range rows {
		controlID := strings.TrimSpace(row[0])
		techniqueID := strings.TrimSpace(row[1])

		sourceRef, ok := controlIDs[controlID]
		if !ok {
			return nil, errors.NewUnresolvedReference(controlID, "controls")
		}
		targetRef, ok := techniqueIDs[techniqueID]
		if !ok {
			return nil, errors.NewUnresolvedReference(techniqueID, "ATT&CK")
		}

		objects = append(objects, &stix.Object{
			ID:               ids.RelationshipID(stix.RelationshipMitigates, sourceRef, targetRef),
			Type:             stix.TypeRelationship,
			RelationshipType: stix.RelationshipMitigates,
			SourceRef:        sourceRef,
			TargetRef:        targetRef,
		})
	}

	return stix.NewBundle(objects), nil
}
