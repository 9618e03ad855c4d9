package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeConfig(t, root, "")

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %s, want %s", got, want)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	// A fresh temp dir normally has no config above it; skip if the host has one.
	dir := t.TempDir()
	if _, ok, _ := Find(dir); ok {
		t.Skip("a config file exists above the temp dir")
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[insert]
align = 32
quiet = true
jobs = 3

[ui]
mode = "off"
path_mode = "basename"

[index]
path = "build/symbols.idx"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Path:   path,
		Insert: InsertConfig{Align: 32, Quiet: true, Jobs: 3},
		UI:     UIConfig{Mode: "off", Color: "auto", PathMode: "basename"},
		Index:  IndexConfig{Path: filepath.Join(dir, "build", "symbols.idx")},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[insert\n", "failed to parse TOML"},
		{"unknown key", "[insert]\nalign = 3\nwidth = 4\n", "unknown keys: insert.width"},
		{"negative align", "[insert]\nalign = -1\n", "[insert].align"},
		{"bad ui mode", "[ui]\nmode = \"sometimes\"\n", "[ui].mode"},
		{"bad color", "[ui]\ncolor = \"rainbow\"\n", "[ui].color"},
		{"bad path mode", "[ui]\npath_mode = \"short\"\n", "[ui].path_mode"},
		{"empty index", "[index]\npath = \"\"\n", "[index].path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
