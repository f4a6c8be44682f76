package listmappings

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/control-frameworks/attackmap/internal/report"
	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// validateListMappingsArgs checks required flags and that the output
// extension names a supported report format. Paths are tilde-expanded in
// place.
func validateListMappingsArgs(options *RunOptionsListMappings) error {
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

	extension := strings.ToLower(filepath.Ext(options.Output))
	allowed := report.AllowedExtensions()
	for _, ext := range allowed {
		if extension == ext {
			return nil
		}
	}
	return fmt.Errorf("unknown output extension %q, allowed extensions: %s", extension, strings.Join(allowed, ", "))
}
