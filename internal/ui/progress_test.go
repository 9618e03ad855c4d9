package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"incfix/internal/driver"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("insert", files, nil).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newModel("a.cc", "b.cc", "a.cc")
	if len(m.items) != 2 {
		t.Fatalf("duplicate files should collapse, got %d items", len(m.items))
	}

	m.applyEvent(driver.Event{File: "a.cc", Stage: driver.StagePlan, Status: driver.StatusWorking})
	if m.items[0].status != "planning" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(driver.Event{File: "a.cc", Stage: driver.StageWrite, Status: driver.StatusDone, Changed: true})
	m.applyEvent(driver.Event{File: "b.cc", Stage: driver.StagePlan, Status: driver.StatusDone})
	if m.items[0].status != "updated" || m.items[1].status != "unchanged" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	// unknown files are ignored
	if cmd := m.applyEvent(driver.Event{File: "zzz.cc", Status: driver.StatusError}); cmd != nil {
		t.Fatal("unknown file produced a command")
	}
}

func TestDedupedFilesAllFinish(t *testing.T) {
	files := driver.DedupPaths([]string{"src/a.cc", "src/./a.cc", "src//b.cc", "src/b.cc"})
	m := newModel(files...)
	if len(m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.items))
	}
	// the driver reports exactly the paths it was handed
	for _, f := range files {
		m.applyEvent(driver.Event{File: f, Stage: driver.StagePlan, Status: driver.StatusDone})
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("src/a.cc", "src/b.cc")
	m.applyEvent(driver.Event{File: "src/b.cc", Stage: driver.StageLoad, Status: driver.StatusError, Elapsed: 1500 * time.Microsecond})
	m.done = true

	view := m.View()
	for _, want := range []string{"done: insert", "src/a.cc", "src/b.cc", "error", "queued", "1.5ms"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.cc", 20, "short.cc"},
		{"a/very/long/path.cc", 10, "a/very/..."},
		{"abcdef", 2, "ab"},
		{"日本語ファイル.cc", 8, "日本..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("a.cc", 6); got != "a.cc  " {
		t.Fatalf("PadRight = %q", got)
	}
	if got := PadRight("longname.cc", 4); got != "longname.cc" {
		t.Fatalf("PadRight = %q", got)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel("a.cc")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
		t.Fatal("other keys must be ignored")
	}
}
