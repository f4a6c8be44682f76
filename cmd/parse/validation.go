package parse

import (
	"fmt"

	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// validateParseArgs checks required flags and input file paths. Paths are
// tilde-expanded in place.
func validateParseArgs(options *RunOptionsParse) error {
	required := map[string]string{
		"controls-tsv": options.ControlsTSV,
		"mappings-tsv": options.MappingsTSV,
		"framework":    options.Framework,
		"out-controls": options.OutControls,
		"out-mappings": options.OutMappings,
	}
	for flag, value := range required {
		if value == "" {
			return fmt.Errorf("'%s' flag must be specified", flag)
		}
	}

	for flag, path := range map[string]*string{"controls-tsv": &options.ControlsTSV, "mappings-tsv": &options.MappingsTSV} {
		expandedPath, err := files.ExpandPath(*path)
		if err != nil {
			return fmt.Errorf("'%s' flag: failed to expand path %q: %w", flag, *path, err)
		}
		if err := files.ValidatePath(expandedPath); err != nil {
			return fmt.Errorf("'%s' flag: %w", flag, err)
		}
		*path = expandedPath
	}

	for flag, path := range map[string]*string{"out-controls": &options.OutControls, "out-mappings": &options.OutMappings} {
		expandedPath, err := files.ExpandPath(*path)
		if err != nil {
			return fmt.Errorf("'%s' flag: failed to expand path %q: %w", flag, *path, err)
		}
		*path = expandedPath
	}
	return nil
}
