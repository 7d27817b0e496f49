package recordio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Format is a record encoding.
type Format string

// Supported record encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"

	// FormatAuto sniffs the encoding from the content.
	FormatAuto Format = ""
)

// Stdin is the path that selects standard input in [ImportRecord].
const Stdin = "-"

// MaxRecordSize bounds how much input is read for one record.
const MaxRecordSize = 8 << 20

// FormatFromPath returns the encoding implied by a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// ReadRecord decodes a record from r. The record must carry a nodes map;
// a missing one is an INVALID_INPUT error. ReadRecord does not close r.
func ReadRecord(r io.Reader, format Format) (*mindmap.Record, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxRecordSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > MaxRecordSize {
		return nil, errors.InvalidInput("record exceeds %d bytes", MaxRecordSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.InvalidInput("empty record")
	}

	if format == FormatAuto {
		format = sniff(data)
	}

	var rec *mindmap.Record
	switch format {
	case FormatJSON:
		rec, err = mindmap.ParseRecord(data)
	case FormatYAML:
		rec, err = mindmap.ParseRecordYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if rec.Nodes == nil {
		return nil, errors.InvalidInput("record %q has no nodes map", rec.Name)
	}
	return rec, nil
}

// ImportRecord reads a record from path, or from stdin when path is "-".
func ImportRecord(path string, stdin io.Reader) (*mindmap.Record, error) {
	if path == Stdin {
		return ReadRecord(stdin, FormatAuto)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := ReadRecord(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func sniff(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\ufeff"), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}
