package stix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObjects() []*Object {
	return []*Object{
		{
			ID:   "course-of-action--a",
			Type: TypeCourseOfAction,
			Name: "Access Control Policy",
			Extensions: map[string]interface{}{
				"x_mitre_family": "Access Control",
				"x_mitre_impact": []interface{}{"HIGH", "MODERATE"},
			},
		},
		{
			ID:   "course-of-action--b",
			Type: TypeCourseOfAction,
			Name: "Boundary Protection",
			Extensions: map[string]interface{}{
				"x_mitre_family": "System and Communications Protection",
				"x_mitre_impact": "LOW",
			},
		},
		{
			ID:   "attack-pattern--c",
			Type: TypeAttackPattern,
			Name: "Command and Scripting Interpreter",
		},
	}
}

func TestStoreGet(t *testing.T) {
	store := NewStore(testObjects()...)

	obj, ok := store.Get("course-of-action--a")
	require.True(t, ok)
	assert.Equal(t, "Access Control Policy", obj.Name)

	_, ok = store.Get("course-of-action--missing")
	assert.False(t, ok)
}

func TestStoreQueryNoFilters(t *testing.T) {
	store := NewStore(testObjects()...)

	all := store.Query()
	require.Len(t, all, 3)
	// load order is preserved
	assert.Equal(t, "course-of-action--a", all[0].ID)
	assert.Equal(t, "attack-pattern--c", all[2].ID)
}

func TestStoreQueryFilters(t *testing.T) {
	store := NewStore(testObjects()...)

	tests := []struct {
		name    string
		filters []Filter
		wantIDs []string
	}{
		{
			name:    "by type",
			filters: []Filter{TypeEquals(TypeCourseOfAction)},
			wantIDs: []string{"course-of-action--a", "course-of-action--b"},
		},
		{
			name:    "by scalar field",
			filters: []Filter{FieldEquals("x_mitre_impact", "LOW")},
			wantIDs: []string{"course-of-action--b"},
		},
		{
			name:    "by list containment",
			filters: []Filter{FieldEquals("x_mitre_impact", "MODERATE")},
			wantIDs: []string{"course-of-action--a"},
		},
		{
			name:    "type and field combined",
			filters: []Filter{TypeEquals(TypeCourseOfAction), FieldEquals("x_mitre_family", "Access Control")},
			wantIDs: []string{"course-of-action--a"},
		},
		{
			name:    "no match",
			filters: []Filter{FieldEquals("x_mitre_impact", "EXTREME")},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIDs []string
			for _, obj := range store.Query(tt.filters...) {
				gotIDs = append(gotIDs, obj.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestStoreLoadReplacesDuplicates(t *testing.T) {
	store := NewStore(testObjects()...)
	store.Load([]*Object{{ID: "course-of-action--a", Type: TypeCourseOfAction, Name: "Replaced"}})

	assert.Equal(t, 3, store.Len())
	obj, ok := store.Get("course-of-action--a")
	require.True(t, ok)
	assert.Equal(t, "Replaced", obj.Name)
}
