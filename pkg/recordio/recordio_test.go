package recordio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

const jsonDoc = `{"name":"Roadmap","nodes":{"ND-2":{"nodetext":"b"},"ND-1":{"nodetext":"a","nodecolor":"red"}}}`

const yamlDoc = `name: Roadmap
nodes:
  ND-2:
    nodetext: b
  ND-1:
    nodetext: a
    nodecolor: red
`

func checkRoadmap(t *testing.T, rec *mindmap.Record) {
	t.Helper()
	if rec.Name != "Roadmap" {
		t.Errorf("Name = %q", rec.Name)
	}
	keys := rec.Nodes.Keys()
	if len(keys) != 2 || keys[0] != "ND-2" || keys[1] != "ND-1" {
		t.Errorf("keys = %v", keys)
	}
}

func TestReadRecord(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"json", jsonDoc, FormatJSON},
		{"yaml", yamlDoc, FormatYAML},
		{"sniff json", "\n  " + jsonDoc, FormatAuto},
		{"sniff yaml", yamlDoc, FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ReadRecord(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadRecord: %v", err)
			}
			checkRoadmap(t, rec)
		})
	}
}

func TestReadRecordErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty", "  \n", errors.ErrCodeInvalidInput},
		{"no nodes", `{"name":"x"}`, errors.ErrCodeInvalidInput},
		{"malformed", `{"name":`, errors.ErrCodeInvalidInput},
		{"yaml scalar", "just text", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecord(strings.NewReader(tt.input), FormatAuto)
			if errors.GetCode(err) != tt.code {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := ReadRecord(strings.NewReader(jsonDoc), Format("toml")); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("toml error = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":     FormatJSON,
		"a.JSON":     FormatJSON,
		"dir/b.yaml": FormatYAML,
		"b.yml":      FormatYAML,
		"c.txt":      FormatAuto,
		"no-ext":     FormatAuto,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestImportRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := ImportRecord(path, nil)
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	checkRoadmap(t, rec)

	rec, err = ImportRecord(Stdin, strings.NewReader(jsonDoc))
	if err != nil {
		t.Fatalf("ImportRecord(stdin): %v", err)
	}
	checkRoadmap(t, rec)

	if _, err := ImportRecord(filepath.Join(dir, "missing.json"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportRecordRoundTrip(t *testing.T) {
	rec, err := ReadRecord(strings.NewReader(jsonDoc), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := ExportRecord(rec, path); err != nil {
			t.Fatalf("ExportRecord(%s): %v", name, err)
		}
		back, err := ImportRecord(path, nil)
		if err != nil {
			t.Fatalf("ImportRecord(%s): %v", name, err)
		}
		checkRoadmap(t, back)
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "roadmap")
	paths, err := WriteArtifacts(base, map[string][]byte{
		"svg": []byte("<svg/>"),
		"png": []byte("png"),
	})
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	want := []string{base + ".png", base + ".svg"}
	if strings.Join(paths, " ") != strings.Join(want, " ") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || !bytes.Equal(data, []byte("<svg/>")) {
		t.Errorf("svg content = %q, %v", data, err)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct{ base, format, want string }{
		{"out", "png", "out.png"},
		{"out.png", "png", "out.png"},
		{"out.PNG", "png", "out.PNG"},
		{"out.png", "svg", "out.png.svg"},
	}
	for _, tt := range tests {
		if got := ArtifactPath(tt.base, tt.format); got != tt.want {
			t.Errorf("ArtifactPath(%q, %q) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"My Roadmap", "my-roadmap"},
		{"  Q3/Q4 plan! ", "q3q4-plan"},
		{"???", "MM-1"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.in, "MM-1"); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
