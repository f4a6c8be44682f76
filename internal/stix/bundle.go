package stix

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// Bundle is a STIX 2.0 bundle: a flat collection of objects.
type Bundle struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	SpecVersion string    `json:"spec_version"`
	Objects     []*Object `json:"objects"`
}

// NewBundle wraps the given objects in a fresh bundle envelope.
func NewBundle(objects []*Object) *Bundle {
	return &Bundle{
		Type:        "bundle",
		ID:          NewID("bundle"),
		SpecVersion: "2.0",
		Objects:     objects,
	}
}

// NewID mints a random STIX identifier for the given object type.
func NewID(typeTag string) string {
	return fmt.Sprintf("%s--%s", typeTag, uuid.New().String())
}

// DecodeBundle parses a serialized STIX bundle.
func DecodeBundle(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode STIX bundle: %w", err)
	}
	return &bundle, nil
}

// LoadBundleFile reads and parses a STIX bundle from a JSON file.
func LoadBundleFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle file %q: %w", path, err)
	}
	bundle, err := DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("bundle file %q: %w", path, err)
	}
	return bundle, nil
}

// WriteBundleFile serializes the bundle as indented JSON, creating the parent
// directory when needed.
func (b *Bundle) WriteBundleFile(path string) error {
	data, err := json.MarshalIndent(b, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize bundle: %w", err)
	}
	return files.WriteFileInFolder(path, data)
}

// Store builds an object store over the bundle contents.
func (b *Bundle) Store() *Store {
	return NewStore(b.Objects...)
}
