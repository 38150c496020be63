package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"scriptgate/internal/driver"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	files := []string{"jobs/a.py", "jobs/b.py"}
	m := NewProgressModel("checking 2 scripts", files, nil).(*progressModel)

	m.Update(eventMsg(driver.CheckEvent{Path: "jobs/a.py", Status: driver.CheckRunning}))
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}
	m.Update(eventMsg(driver.CheckEvent{Path: "jobs/a.py", Status: driver.CheckFixable, Issues: 1}))
	m.Update(eventMsg(driver.CheckEvent{Path: "jobs/b.py", Status: driver.CheckFailed, Issues: 2}))
	m.Update(eventMsg(driver.CheckEvent{Path: "unknown.py", Status: driver.CheckPassed}))
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	view := m.View()
	for _, w := range []string{"fixable", "jobs/a.py (1)", "failed", "jobs/b.py (2)"} {
		if !strings.Contains(view, w) {
			t.Errorf("missing %q in view:\n%s", w, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "done: checking 2 scripts") {
		t.Fatalf("header not updated:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.py", 20); got != "short.py" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a/very/long/path/to/script.py", 10); got != "a/very/..." {
		t.Fatalf("got %q", got)
	}
}
