package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

const controlsTSV = "ID\tName\tFamily\tDescription\n" +
	"AC-1\tAccess Control Policy\tAccess Control\tPolicy text\n" +
	"AC-2\tAccount Management\tAccess Control\t\n" +
	"AC-2(1)\tAutomated System Account Management\tAccess Control\t\n"

const mappingsTSV = "Control ID\tTechnique ID\n" +
	"AC-2\tT1059\n" +
	"AC-2(1)\tT1059\n"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func attackStore() *stix.Store {
	return stix.NewStore(&stix.Object{
		ID:   "attack-pattern--1",
		Type: stix.TypeAttackPattern,
		Name: "Command and Scripting Interpreter",
		ExternalReferences: []stix.ExternalReference{
			{SourceName: "mitre-attack", ExternalID: "T1059"},
		},
	})
}

func TestParseControls(t *testing.T) {
	path := writeTemp(t, "controls.tsv", controlsTSV)

	bundle, err := ParseControls(path, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)

	controls := bundle.Store().Query(stix.TypeEquals(stix.TypeCourseOfAction))
	require.Len(t, controls, 3)
	assert.Equal(t, "Access Control Policy", controls[0].Name)
	assert.Equal(t, "Policy text", controls[0].Description)
	assert.Equal(t, "nist800-53-r4", controls[0].ExternalReferences[0].SourceName)
	assert.Equal(t, "AC-1", controls[0].ExternalReferences[0].ExternalID)
	assert.Equal(t, "Access Control", controls[0].Extensions["x_mitre_family"])

	// the enhancement is linked to its parent control
	relationships := bundle.Store().Query(stix.TypeEquals(stix.TypeRelationship))
	require.Len(t, relationships, 1)
	assert.Equal(t, stix.RelationshipSubcontrolOf, relationships[0].RelationshipType)
	parent, ok := bundle.Store().Get(relationships[0].TargetRef)
	require.True(t, ok)
	assert.Equal(t, "Account Management", parent.Name)
	child, ok := bundle.Store().Get(relationships[0].SourceRef)
	require.True(t, ok)
	assert.Equal(t, "Automated System Account Management", child.Name)
}

func TestParseControlsRelatedControls(t *testing.T) {
	tsv := "ID\tName\tFamily\tDescription\tRelated\n" +
		"AC-1\tAccess Control Policy\tAccess Control\tPolicy text\tAC-2, ZZ-9\n" +
		"AC-2\tAccount Management\tAccess Control\t\t\n"
	dir := t.TempDir()
	controlsPath := filepath.Join(dir, "controls.tsv")
	require.NoError(t, os.WriteFile(controlsPath, []byte(tsv), 0644))

	bundle, err := ParseControls(controlsPath, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)

	// ZZ-9 is not in the file and yields no relationship
	relationships := bundle.Store().Query(stix.TypeEquals(stix.TypeRelationship))
	require.Len(t, relationships, 1)
	assert.Equal(t, stix.RelationshipRelatedTo, relationships[0].RelationshipType)
	source, ok := bundle.Store().Get(relationships[0].SourceRef)
	require.True(t, ok)
	assert.Equal(t, "Access Control Policy", source.Name)
	target, ok := bundle.Store().Get(relationships[0].TargetRef)
	require.True(t, ok)
	assert.Equal(t, "Account Management", target.Name)

	// the relationship ID survives a rebuild
	bundlePath := filepath.Join(dir, "controls.json")
	require.NoError(t, bundle.WriteBundleFile(bundlePath))
	harvested, err := HarvestIDs(bundlePath)
	require.NoError(t, err)
	rebuilt, err := ParseControls(controlsPath, "nist800-53-r4", harvested)
	require.NoError(t, err)
	again := rebuilt.Store().Query(stix.TypeEquals(stix.TypeRelationship))
	require.Len(t, again, 1)
	assert.Equal(t, relationships[0].ID, again[0].ID)
}

func TestParseMappings(t *testing.T) {
	controlsPath := writeTemp(t, "controls.tsv", controlsTSV)
	mappingsPath := writeTemp(t, "mappings.tsv", mappingsTSV)

	controls, err := ParseControls(controlsPath, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)

	bundle, err := ParseMappings(mappingsPath, controls, attackStore(), NewExistingIDs())
	require.NoError(t, err)

	require.Len(t, bundle.Objects, 2)
	for _, rel := range bundle.Objects {
		assert.Equal(t, stix.RelationshipMitigates, rel.RelationshipType)
		assert.Equal(t, "attack-pattern--1", rel.TargetRef)
	}
}

func TestParseMappingsUnknownTechnique(t *testing.T) {
	controlsPath := writeTemp(t, "controls.tsv", controlsTSV)
	mappingsPath := writeTemp(t, "mappings.tsv", "Control ID\tTechnique ID\nAC-2\tT9999\n")

	controls, err := ParseControls(controlsPath, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)

	_, err = ParseMappings(mappingsPath, controls, attackStore(), NewExistingIDs())
	var unresolved *errors.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "T9999", unresolved.Ref)
}

func TestParseMappingsUnknownControl(t *testing.T) {
	controlsPath := writeTemp(t, "controls.tsv", controlsTSV)
	mappingsPath := writeTemp(t, "mappings.tsv", "Control ID\tTechnique ID\nZZ-9\tT1059\n")

	controls, err := ParseControls(controlsPath, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)

	_, err = ParseMappings(mappingsPath, controls, attackStore(), NewExistingIDs())
	var unresolved *errors.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "ZZ-9", unresolved.Ref)
}

func TestRebuildReusesIDs(t *testing.T) {
	dir := t.TempDir()
	controlsPath := filepath.Join(dir, "controls.tsv")
	require.NoError(t, os.WriteFile(controlsPath, []byte(controlsTSV), 0644))
	bundlePath := filepath.Join(dir, "controls.json")

	first, err := ParseControls(controlsPath, "nist800-53-r4", NewExistingIDs())
	require.NoError(t, err)
	require.NoError(t, first.WriteBundleFile(bundlePath))

	harvested, err := HarvestIDs(bundlePath)
	require.NoError(t, err)
	second, err := ParseControls(controlsPath, "nist800-53-r4", harvested)
	require.NoError(t, err)

	firstIDs := make(map[string]string)
	for _, obj := range first.Objects {
		if obj.Type != stix.TypeCourseOfAction {
			continue
		}
		externalID, err := obj.CanonicalID()
		require.NoError(t, err)
		firstIDs[externalID] = obj.ID
	}
	for _, obj := range second.Objects {
		if obj.Type != stix.TypeCourseOfAction {
			continue
		}
		externalID, err := obj.CanonicalID()
		require.NoError(t, err)
		assert.Equal(t, firstIDs[externalID], obj.ID, "STIX ID for %s changed across rebuilds", externalID)
	}
}

func TestHarvestIDsMissingFile(t *testing.T) {
	ids, err := HarvestIDs(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NotNil(t, ids)
}
