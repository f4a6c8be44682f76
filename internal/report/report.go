// Package report renders the resolved mapping list in human-readable tabular
// formats, selected by the output file extension.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/control-frameworks/attackmap/internal/mappings"
	"github.com/control-frameworks/attackmap/pkg/shared/files"
)

// Header is the fixed column order of the mapping report.
var Header = []string{"Control ID", "Control Name", "Mapping Type", "Technique ID", "Technique Name"}

// Rows flattens resolved mappings into table rows in Header column order.
func Rows(resolved []mappings.ResolvedMapping) [][]string {
	rows := make([][]string, 0, len(resolved))
	for _, m := range resolved {
		rows = append(rows, []string{m.ControlID, m.ControlName, m.MappingType, m.TechniqueID, m.TechniqueName})
	}
	return rows
}

type writerFunc func(w io.Writer, rows [][]string) error

var writersByExtension = map[string]writerFunc{
	".csv":  writeCSV,
	".html": writeHTML,
	".md":   writeMarkdown,
	".json": writeJSON,
}

// AllowedExtensions returns the supported report extensions, sorted.
func AllowedExtensions() []string {
	extensions := make([]string, 0, len(writersByExtension))
	for ext := range writersByExtension {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// Write renders the mapping report to path, choosing the format from the
// file extension.
func Write(path string, resolved []mappings.ResolvedMapping) error {
	extension := strings.ToLower(filepath.Ext(path))
	writer, ok := writersByExtension[extension]
	if !ok {
		return fmt.Errorf("unknown output extension %q, allowed extensions: %s",
			extension, strings.Join(AllowedExtensions(), ", "))
	}

	if err := files.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %q: %w", path, err)
	}
	defer f.Close()

	if err := writer(f, Rows(resolved)); err != nil {
		return fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return nil
}
