package heatmaps

import (
	"fmt"

	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// validateHeatmapsArgs checks required flags and input file paths. Paths are
// tilde-expanded in place.
func validateHeatmapsArgs(options *RunOptionsHeatmaps) error {
	if options.Framework == "" {
		return fmt.Errorf("'framework' flag must be specified")
	}
	if options.Controls == "" {
		return fmt.Errorf("'controls' flag must be specified")
	}
	if options.Mappings == "" {
		return fmt.Errorf("'mappings' flag must be specified")
	}
	if options.Output == "" {
		return fmt.Errorf("'output' flag must be specified")
	}

	for flag, path := range map[string]*string{"controls": &options.Controls, "mappings": &options.Mappings} {
		expandedPath, err := files.ExpandPath(*path)
		if err != nil {
			return fmt.Errorf("'%s' flag: failed to expand path %q: %w", flag, *path, err)
		}
		if err := files.ValidatePath(expandedPath); err != nil {
			return fmt.Errorf("'%s' flag: %w", flag, err)
		}
		*path = expandedPath
	}

	expandedOutput, err := files.ExpandPath(options.Output)
	if err != nil {
		return fmt.Errorf("'output' flag: failed to expand path %q: %w", options.Output, err)
	}
	options.Output = expandedOutput
	return nil
}
