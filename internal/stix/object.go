// Package stix holds the minimal slice of STIX 2.0 needed to work with
// control framework bundles: identified objects, relationships, bundles, and
// an in-memory store over them.
package stix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// Object types and relationship kinds used by the control framework bundles.
const (
	TypeCourseOfAction = "course-of-action"
	TypeAttackPattern  = "attack-pattern"
	TypeRelationship   = "relationship"

	RelationshipMitigates    = "mitigates"
	RelationshipSubcontrolOf = "subcontrol-of"
	RelationshipRelatedTo    = "related-to"
)

// ExtensionPrefix marks custom framework metadata properties on an object,
// e.g. x_mitre_family or x_mitre_impact.
const ExtensionPrefix = "x_mitre_"

// ExternalReference is a pointer from a STIX object into an external naming
// scheme, carrying the framework identifier such as "AC-1" or "T1059".
type ExternalReference struct {
	SourceName string `json:"source_name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Object is a single identified STIX object. Controls (course-of-action),
// techniques (attack-pattern) and relationships all decode into the same
// shape; relationship-specific fields are empty on non-relationship objects.
// Custom x_mitre_ properties are preserved in Extensions.
type Object struct {
	ID                 string
	Type               string
	Name               string
	Description        string
	ExternalReferences []ExternalReference
	RelationshipType   string
	SourceRef          string
	TargetRef          string
	Extensions         map[string]interface{}
}

// objectFields mirrors the known JSON fields of Object for (un)marshalling.
type objectFields struct {
	ID                 string              `json:"id"`
	Type               string              `json:"type"`
	Name               string              `json:"name,omitempty"`
	Description        string              `json:"description,omitempty"`
	ExternalReferences []ExternalReference `json:"external_references,omitempty"`
	RelationshipType   string              `json:"relationship_type,omitempty"`
	SourceRef          string              `json:"source_ref,omitempty"`
	TargetRef          string              `json:"target_ref,omitempty"`
}

// UnmarshalJSON decodes the known STIX fields and collects any x_mitre_
// extension properties into the Extensions map.
func (o *Object) UnmarshalJSON(data []byte) error {
	var fields objectFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.ID = fields.ID
	o.Type = fields.Type
	o.Name = fields.Name
	o.Description = fields.Description
	o.ExternalReferences = fields.ExternalReferences
	o.RelationshipType = fields.RelationshipType
	o.SourceRef = fields.SourceRef
	o.TargetRef = fields.TargetRef

	o.Extensions = nil
	for key, value := range raw {
		if !strings.HasPrefix(key, ExtensionPrefix) {
			continue
		}
		if o.Extensions == nil {
			o.Extensions = make(map[string]interface{})
		}
		o.Extensions[key] = value
	}
	return nil
}

// MarshalJSON renders the object back to STIX JSON, merging extension
// properties with the typed fields.
func (o Object) MarshalJSON() ([]byte, error) {
	fields := objectFields{
		ID:                 o.ID,
		Type:               o.Type,
		Name:               o.Name,
		Description:        o.Description,
		ExternalReferences: o.ExternalReferences,
		RelationshipType:   o.RelationshipType,
		SourceRef:          o.SourceRef,
		TargetRef:          o.TargetRef,
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if len(o.Extensions) == 0 {
		return data, nil
	}

	merged := make(map[string]interface{}, len(o.Extensions)+8)
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range o.Extensions {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// CanonicalID returns the framework identifier of the object, taken from its
// first external reference. STIX orders external references so that the
// defining reference comes first; an object with no references at all cannot
// be reported on and is treated as a data error.
func (o *Object) CanonicalID() (string, error) {
	if len(o.ExternalReferences) == 0 {
		return "", errors.NewMissingExternalReference(o.ID)
	}
	return o.ExternalReferences[0].ExternalID, nil
}

// Extension returns the raw value of a custom metadata property.
func (o *Object) Extension(name string) (interface{}, bool) {
	value, ok := o.Extensions[name]
	return value, ok
}

// ExtensionValues normalizes a custom metadata property into a list of
// string values. Scalar properties yield a single-element list; list-valued
// properties yield one element per entry. The second result reports whether
// the underlying value was a list.
func (o *Object) ExtensionValues(name string) (values []string, isList bool) {
	raw, ok := o.Extensions[name]
	if !ok || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []interface{}:
		values = make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, stringify(item))
		}
		return values, true
	default:
		return []string{stringify(v)}, false
	}
}

// stringify renders a scalar extension value as a string. JSON numbers decode
// as float64, so whole numbers are printed without a fraction.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
