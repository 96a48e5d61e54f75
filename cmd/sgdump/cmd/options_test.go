package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"--layers", "--set", "alpha=0.5", "--set=name=a=b", "--json", "icon.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.file != "icon.json" || !opts.json {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.layers == nil || !*opts.layers {
		t.Error("expected layers to be enabled")
	}
	if len(opts.sets) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(opts.sets))
	}
	if opts.sets[0].name != "alpha" || opts.sets[0].value != 0.5 {
		t.Errorf("expected alpha=0.5, got %+v", opts.sets[0])
	}
	if opts.sets[1].name != "name" || opts.sets[1].value != "a=b" {
		t.Errorf("expected name=a=b, got %+v", opts.sets[1])
	}
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"--json"}},
		{"two files", []string{"a.json", "b.json"}},
		{"unknown flag", []string{"--wat", "a.json"}},
		{"missing value", []string{"a.json", "--set"}},
		{"no equals", []string{"--set", "alpha", "a.json"}},
		{"empty name", []string{"--set", "=1", "a.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseOptions(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"12", 12},
		{"0.25", 0.25},
		{"true", true},
		{"red", "red"},
		{"#ff0000", "#ff0000"},
		{"", ""},
		{"[1, 2]", "[1, 2]"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.raw); got != tt.want {
			t.Errorf("parseValue(%q): expected %v (%T), got %v (%T)", tt.raw, tt.want, tt.want, got, got)
		}
	}
}

const testDocument = `{"type": "AVG", "version": "1.2", "width": 20, "height": 20,
	"parameters": [{"name": "alpha", "type": "number", "default": 1}],
	"items": [{"type": "group", "opacity": "${alpha}",
		"items": [{"type": "path", "pathData": "M0 0 L10 10", "stroke": "red"}]}]}`

func writeDocument(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "icon.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	if config != "" {
		if err := os.WriteFile(filepath.Join(dir, "sgdump.yaml"), []byte(config), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestOptionsOpen(t *testing.T) {
	path := writeDocument(t, "allowLayers: true\nparameters:\n  alpha: 0.5\n")

	opts, err := parseOptions([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	e, err := opts.open()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Config().AllowLayers {
		t.Error("expected allowLayers from sgdump.yaml")
	}
	if v, _ := e.Graphic().Parameter("alpha"); v != 0.5 {
		t.Errorf("expected alpha 0.5 from sgdump.yaml, got %v", v)
	}

	opts, _ = parseOptions([]string{"--no-layers", path})
	e, err = opts.open()
	if err != nil {
		t.Fatal(err)
	}
	if e.Config().AllowLayers {
		t.Error("expected --no-layers to override sgdump.yaml")
	}
}

func TestRunCommands(t *testing.T) {
	path := writeDocument(t, "")

	if err := runDump([]string{"--layers", path}); err != nil {
		t.Errorf("dump: unexpected error: %v", err)
	}
	if err := runDump([]string{"--json", "--set", "alpha=0.5", path}); err != nil {
		t.Errorf("dump --json: unexpected error: %v", err)
	}
	if err := runUpdate([]string{"--layers", "--set", "alpha=0.5", path}); err != nil {
		t.Errorf("update: unexpected error: %v", err)
	}
	if err := runUpdate([]string{path}); err == nil {
		t.Error("expected update without --set to fail")
	}
	if err := runUpdate([]string{"--set", "beta=1", path}); err == nil {
		t.Error("expected an unknown parameter to fail")
	}
	if err := runDump([]string{filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("expected a missing document to fail")
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	if err := Execute([]string{"frobnicate"}); err == nil {
		t.Error("expected an error for an unknown command")
	}
	if err := Execute(nil); err != nil {
		t.Errorf("expected help without error, got %v", err)
	}
}
