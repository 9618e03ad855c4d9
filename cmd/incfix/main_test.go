package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"incfix/internal/config"
	"incfix/internal/symbols"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command with an empty config so that no
// .incfix.toml from the host leaks into the test.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, input string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)
	cfg = config.Default()
	logger = nil

	cfgPath := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(cfgPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--color", "off", "--ui", "off"}, args...))
	err := rootCmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readSource(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestInsertCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "#include <a.h>\n#include \"b.h\"\n#include \"c.h\"\n")
	b := writeSource(t, dir, "b.cc", "#include \"d.h\"\n")

	res := runCLI(t, "insert", "-edeclares D", "-a", "12", "d.h", a, b)
	if res.err != nil {
		t.Fatalf("insert: %v\nstderr: %s", res.err, res.stderr)
	}
	if got, want := readSource(t, a), "#include <a.h>\n#include \"b.h\"\n#include \"d.h\"\n#include \"c.h\"\n"; got != want {
		t.Fatalf("a.cc:\n%s", got)
	}
	if want := a + " declares D\n"; res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
	if want := b + ": #include \"d.h\" already there\n"; res.stderr != want {
		t.Fatalf("stderr = %q, want %q", res.stderr, want)
	}

	// second run changes nothing
	res = runCLI(t, "insert", "d.h", a)
	if res.err != nil {
		t.Fatalf("second insert: %v", res.err)
	}
	if !strings.Contains(res.stderr, "already there") {
		t.Fatalf("expected already-there notice, got %q", res.stderr)
	}
}

func TestInsertQuiet(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "#include <vector>\n")

	res := runCLI(t, "insert", "-q", "<vector>", a)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	if res.stderr != "" {
		t.Fatalf("quiet run printed %q", res.stderr)
	}
}

func TestInsertMalformedDirective(t *testing.T) {
	dir := t.TempDir()
	const orig = "int x;\n"
	a := writeSource(t, dir, "a.cc", orig)

	for _, arg := range []string{"<vector", "\"a.h", "x"} {
		res := runCLI(t, "insert", arg, a)
		if res.err == nil {
			t.Fatalf("%q: expected error", arg)
		}
		if readSource(t, a) != orig {
			t.Fatalf("%q: file was touched", arg)
		}
	}
}

func TestInsertMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "int a;\n")
	missing := filepath.Join(dir, "missing.cc")

	res := runCLI(t, "insert", "<map>", missing, a)
	if !errors.Is(res.err, errFailed) {
		t.Fatalf("expected errFailed, got %v", res.err)
	}
	if !strings.Contains(res.stderr, missing+": can't open: ") {
		t.Fatalf("stderr = %q", res.stderr)
	}
	if got := readSource(t, a); got != "#include <map>\nint a;\n" {
		t.Fatalf("other files must still be processed, a.cc:\n%s", got)
	}
}

func TestInsertDryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "int a;\n")

	res := runCLI(t, "insert", "--dry-run", "<map>", a)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	if !strings.Contains(res.stdout, a+": insert \"#include <map>\" at line 1 (start-of-file)") {
		t.Fatalf("stdout = %q", res.stdout)
	}
	if readSource(t, a) != "int a;\n" {
		t.Fatal("dry run wrote the file")
	}
}

func TestInsertBySymbol(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "sym.idx")
	if err := symbols.NewIndex([]symbols.Entry{{Symbol: "Widget", File: "ui/widget.h"}}).Save(idxPath); err != nil {
		t.Fatal(err)
	}
	a := writeSource(t, dir, "a.cc", "#include \"a.h\"\n")

	res := runCLI(t, "insert", "--index", idxPath, "--symbol", "Widget", "-a", "0", a)
	if res.err != nil {
		t.Fatalf("insert: %v\n%s", res.err, res.stderr)
	}
	if got := readSource(t, a); got != "#include \"ui/widget.h\"\n#include \"a.h\"\n" {
		t.Fatalf("a.cc:\n%s", got)
	}
	if res.stdout != a+" Widget\n" {
		t.Fatalf("stdout = %q", res.stdout)
	}

	res = runCLI(t, "insert", "--index", idxPath, "--symbol", "Gadget", a)
	if !errors.Is(res.err, symbols.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", res.err)
	}
}

func TestFrontCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "#include <a.h>\n#include \"foo/bar.h\" // own\nint x;\n")
	b := writeSource(t, dir, "b.cc", "int y;\n")
	c := writeSource(t, dir, "c.cc", "#include <a.h>\n")

	res := runCLI(t, "front", "foo/bar.h", a, b, c)
	if res.err != nil {
		t.Fatalf("front: %v", res.err)
	}
	if got, want := readSource(t, a), "#include \"foo/bar.h\" // own\n\n#include <a.h>\nint x;\n"; got != want {
		t.Fatalf("a.cc:\n%q", got)
	}
	for _, want := range []string{
		b + ": No headers found.\n",
		c + ": Not having #include \"foo/bar.h\"\n",
	} {
		if !strings.Contains(res.stderr, want) {
			t.Fatalf("stderr lacks %q:\n%s", want, res.stderr)
		}
	}
}

func TestIndexCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "symbols.txt", "Widget   ui/widget.h\nWidget   ui/widget.h\nRender   ui/render.h\n")
	out := filepath.Join(dir, "out.idx")

	res := runCLI(t, "index", "--out", out, "--print", "-a", "8", input)
	if res.err != nil {
		t.Fatalf("index: %v", res.err)
	}
	want := "Widget   ui/widget.h\nRender   ui/render.h\nsymbols: 2 unique (1 duplicates dropped)\n"
	if res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}

	idx, err := symbols.Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("index has %d entries", idx.Len())
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "version", "--format", "json")
	if res.err != nil {
		t.Fatalf("version: %v", res.err)
	}
	if !strings.Contains(res.stdout, `"tool": "incfix"`) {
		t.Fatalf("stdout = %q", res.stdout)
	}

	res = runCLI(t, "version", "--format", "xml")
	if res.err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestApplyColorMode(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	if err := applyColorMode("on"); err != nil || color.NoColor {
		t.Fatalf("on: err=%v NoColor=%v", err, color.NoColor)
	}
	if err := applyColorMode("off"); err != nil || !color.NoColor {
		t.Fatalf("off: err=%v NoColor=%v", err, color.NoColor)
	}
	if err := applyColorMode("sometimes"); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{"AUTO", uiModeAuto, true},
		{"on", uiModeOn, true},
		{" off ", uiModeOff, true},
		{"maybe", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff, []string{"a.cc", "b.cc"}) || !shouldUseTUI(uiModeOn, []string{"a.cc"}) {
		t.Fatal("explicit modes must win")
	}
	if shouldUseTUI(uiModeOn, []string{"a.cc", "-"}) {
		t.Fatal("the progress view must stay off while stdout carries filtered text")
	}
}

func TestInsertDryRunShowsAnchor(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "#include <a.h>\n#include \"b.h\"\n#include \"c.h\"\n")

	res := runCLI(t, "insert", "--dry-run", "d.h", a)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	want := a + ": insert \"#include \\\"d.h\\\"\" at line 3 (own-style)\n    before: #include \"c.h\"\n"
	if res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestPathModeBasename(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "#include <map>\n")
	b := writeSource(t, dir, "b.cc", "int b;\n")

	res := runCLI(t, "insert", "--path-mode", "basename", "-e", "adds map", "-a", "6", "<map>", a, b)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	if want := "b.cc   adds map\n"; res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
	if want := "a.cc: #include <map> already there\n"; res.stderr != want {
		t.Fatalf("stderr = %q, want %q", res.stderr, want)
	}

	res = runCLI(t, "insert", "--path-mode", "short", "<map>", a)
	if res.err == nil || !strings.Contains(res.err.Error(), "--path-mode") {
		t.Fatalf("expected --path-mode error, got %v", res.err)
	}
}

func TestTimingsJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "int a;\n")

	res := runCLI(t, "insert", "--timings", "--timings-format", "json", "<map>", a)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	var payload struct {
		Kind  string `json:"kind"`
		Files int    `json:"files"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(res.stderr)), &payload); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, res.stderr)
	}
	if payload.Kind != "insert" || payload.Files != 1 {
		t.Fatalf("payload = %+v", payload)
	}

	res = runCLI(t, "insert", "--timings", "--timings-format", "yaml", "<map>", a)
	if res.err == nil || !strings.Contains(res.err.Error(), "--timings-format") {
		t.Fatalf("expected --timings-format error, got %v", res.err)
	}
}

func TestInsertStdin(t *testing.T) {
	res := runCLIWithInput(t, "int x;\r\n", "insert", "-e", "adds map", "<map>", "-")
	if res.err != nil {
		t.Fatalf("insert: %v\nstderr: %s", res.err, res.stderr)
	}
	if want := "#include <map>\r\nint x;\r\n"; res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
	if !strings.Contains(res.stderr, "<stdin>") || !strings.Contains(res.stderr, "adds map") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestDuplicateFilesReportedOnce(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.cc", "int a;\n")
	alias := dir + string(filepath.Separator) + "." + string(filepath.Separator) + "a.cc"

	res := runCLI(t, "insert", "-e", "adds map", "-a", "1", "<map>", a, alias, a)
	if res.err != nil {
		t.Fatalf("insert: %v", res.err)
	}
	if want := a + " adds map\n"; res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
	if got, want := readSource(t, a), "#include <map>\nint a;\n"; got != want {
		t.Fatalf("a.cc = %q", got)
	}
}
