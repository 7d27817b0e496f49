package recordio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// WriteRecord encodes rec to w in the given format (JSON when auto).
func WriteRecord(rec *mindmap.Record, w io.Writer, format Format) error {
	switch format {
	case FormatJSON, FormatAuto:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}
	return nil
}

// ExportRecord writes rec to path, choosing the encoding by extension.
func ExportRecord(rec *mindmap.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteRecord(rec, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ArtifactPath returns the output path of one format. A base path that
// already carries that format's extension is used as is.
func ArtifactPath(base, format string) string {
	ext := "." + format
	if strings.EqualFold(filepath.Ext(base), ext) {
		return base
	}
	return base + ext
}

// WriteArtifacts writes each artifact to ArtifactPath(base, format) and
// returns the written paths in format order. Parent directories are created.
func WriteArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := ArtifactPath(base, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// BaseName derives an output base name from a map name: lower case, spaces
// become dashes, anything else outside [a-z0-9_-] is dropped.
func BaseName(name, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
