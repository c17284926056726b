package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_LogOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routewatch.log")
	body := `{"level":"info","ts":"2026-10-14T09:00:00Z","logger":"poll.routes","msg":"console starting"}` + "\n" +
		`{"level":"warn","ts":"2026-10-14T09:00:10Z","logger":"poll.routes","msg":"poll failed"}` + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := New(Options{LogFile: path})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, watch := press(t, m, "L")
	if !m.logs.open {
		t.Fatalf("L did not open the log overlay")
	}
	if len(m.logs.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.logs.entries))
	}
	view := m.View()
	if !strings.Contains(view, "poll failed") || !strings.Contains(view, "WARN") {
		t.Fatalf("log overlay missing entries:\n%s", view)
	}

	appended := `{"level":"error","ts":"2026-10-14T09:00:20Z","logger":"fleet","msg":"api unreachable"}` + "\n"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString(appended); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	if watch == nil {
		t.Fatalf("opening the overlay did not start a log watcher")
	}
	changed := make(chan tea.Msg, 1)
	go func() { changed <- watch() }()
	select {
	case msg := <-changed:
		m = update(t, m, msg)
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported after appending to the log")
	}
	if len(m.logs.entries) != 3 {
		t.Fatalf("entries after change = %d, want 3", len(m.logs.entries))
	}

	m, _ = press(t, m, "r")
	if len(m.logs.entries) != 3 {
		t.Fatalf("entries after reload = %d, want 3", len(m.logs.entries))
	}

	m, _ = press(t, m, "esc")
	if m.logs.open || m.logs.watcher != nil {
		t.Fatalf("esc did not close the log overlay and its watcher")
	}
}

func TestModel_LogOverlayWithoutFile(t *testing.T) {
	m := New(Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = press(t, m, "L")
	if !strings.Contains(m.View(), "Logging to stderr") {
		t.Fatalf("expected stderr notice:\n%s", m.View())
	}
}
