package stix

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleRoundTrip(t *testing.T) {
	bundle := NewBundle([]*Object{
		{
			ID:   "course-of-action--1",
			Type: TypeCourseOfAction,
			Name: "Access Control Policy",
			ExternalReferences: []ExternalReference{
				{SourceName: "NIST 800-53", ExternalID: "AC-1"},
			},
			Extensions: map[string]interface{}{"x_mitre_family": "Access Control"},
		},
	})
	assert.Equal(t, "bundle", bundle.Type)
	assert.True(t, strings.HasPrefix(bundle.ID, "bundle--"))
	assert.Equal(t, "2.0", bundle.SpecVersion)

	path := filepath.Join(t.TempDir(), "out", "controls.json")
	require.NoError(t, bundle.WriteBundleFile(path))

	loaded, err := LoadBundleFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Objects, 1)
	assert.Equal(t, "Access Control Policy", loaded.Objects[0].Name)
	assert.Equal(t, "Access Control", loaded.Objects[0].Extensions["x_mitre_family"])
}

func TestDecodeBundleInvalid(t *testing.T) {
	_, err := DecodeBundle([]byte("not json"))
	require.Error(t, err)
}

func TestNewID(t *testing.T) {
	id := NewID(TypeCourseOfAction)
	assert.True(t, strings.HasPrefix(id, "course-of-action--"))
	assert.NotEqual(t, id, NewID(TypeCourseOfAction))
}
