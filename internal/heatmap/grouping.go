package heatmap

import (
	"regexp"
	"sort"
	"strings"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// FamilyProperty is the metadata property carrying the human-readable family
// name. It has dedicated handling and is excluded from dynamic discovery.
const FamilyProperty = "x_mitre_family"

// familyPattern extracts the family code from a control identifier,
// e.g. "AC" from "AC-1" or "SC" from "SC-7(1)".
var familyPattern = regexp.MustCompile(`^(\w+)-`)

// Family is the subset of controls sharing an identifier prefix.
type Family struct {
	Code     string
	Label    string
	Controls []*stix.Object
}

// GroupByFamily partitions the controls by their family code, in first-seen
// order. Every control belongs to exactly one family. A control identifier
// that does not carry a family prefix is malformed: real framework
// identifiers always conform, so a mismatch is a data error rather than a
// bucket of its own. The family label comes from the x_mitre_family property
// when present, falling back to the code.
func GroupByFamily(controls *stix.Store) ([]Family, error) {
	var order []string
	families := make(map[string]*Family)

	for _, control := range controls.Query(stix.TypeEquals(stix.TypeCourseOfAction)) {
		controlID, err := control.CanonicalID()
		if err != nil {
			return nil, err
		}
		match := familyPattern.FindStringSubmatch(controlID)
		if match == nil {
			return nil, errors.NewMalformedIdentifier(controlID)
		}
		code := match[1]

		family, ok := families[code]
		if !ok {
			family = &Family{Code: code, Label: code}
			families[code] = family
			order = append(order, code)
		}
		family.Controls = append(family.Controls, control)
		if raw, ok := control.Extension(FamilyProperty); ok {
			if label, ok := raw.(string); ok {
				family.Label = label
			}
		}
	}

	result := make([]Family, 0, len(order))
	for _, code := range order {
		result = append(result, *families[code])
	}
	return result, nil
}

// PropertyGroup is the subset of controls sharing a value of a custom
// metadata property.
type PropertyGroup struct {
	Value    string
	Controls []*stix.Object
}

// GroupByProperty partitions the controls by the values of the given custom
// metadata property, in first-seen order. A control with a list-valued
// property joins one group per list element; controls lacking the property
// are left out entirely. The second result reports whether any control
// carried the property as a list.
func GroupByProperty(controls *stix.Store, property string) ([]PropertyGroup, bool) {
	var order []string
	groups := make(map[string]*PropertyGroup)
	isListType := false

	for _, control := range controls.Query(stix.TypeEquals(stix.TypeCourseOfAction)) {
		values, isList := control.ExtensionValues(property)
		if len(values) == 0 {
			continue
		}
		if isList {
			isListType = true
		}
		for _, value := range values {
			group, ok := groups[value]
			if !ok {
				group = &PropertyGroup{Value: value}
				groups[value] = group
				order = append(order, value)
			}
			group.Controls = append(group.Controls, control)
		}
	}

	result := make([]PropertyGroup, 0, len(order))
	for _, value := range order {
		result = append(result, *groups[value])
	}
	return result, isListType
}

// DiscoverProperties scans all objects of the given type and returns the
// sorted set of custom metadata property names they define. The family
// property is excluded since it has dedicated handling in GroupByFamily.
func DiscoverProperties(store *stix.Store, typeTag string) []string {
	seen := make(map[string]struct{})
	for _, obj := range store.Query(stix.TypeEquals(typeTag)) {
		for key := range obj.Extensions {
			if key == FamilyProperty {
				continue
			}
			if strings.HasPrefix(key, stix.ExtensionPrefix) {
				seen[key] = struct{}{}
			}
		}
	}

	properties := make([]string, 0, len(seen))
	for key := range seen {
		properties = append(properties, key)
	}
	sort.Strings(properties)
	return properties
}
