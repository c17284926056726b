package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/logtail"
)

// logPanel is the overlay with the tail of the console's log file. While
// it is open a watcher on the log directory reloads it on every write.
type logPanel struct {
	open    bool
	path    string
	entries []logtail.Entry
	err     error
	watcher *fsnotify.Watcher
}

// logChangedMsg reports a write to the log file seen by watcher.
type logChangedMsg struct {
	watcher *fsnotify.Watcher
}

func (p *logPanel) load(n int) {
	if p.path == "" {
		p.entries, p.err = nil, nil
		return
	}
	p.entries, p.err = logtail.Tail(p.path, n)
}

func (m Model) logLines() int {
	return max(m.contentHeight(), 1)
}

func (m *Model) openLogs() tea.Cmd {
	m.logs.open = true
	m.logs.load(m.logLines())
	if m.logs.path == "" || m.logs.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.logger.Debug("log watcher unavailable", zap.Error(err))
		return nil
	}
	// The directory is watched so a rotated or not yet created file is seen.
	if err := w.Add(filepath.Dir(m.logs.path)); err != nil {
		_ = w.Close()
		m.logger.Debug("watch log directory", zap.String("path", m.logs.path), zap.Error(err))
		return nil
	}
	m.logs.watcher = w
	return waitForLogChange(w, m.logs.path)
}

func (m *Model) closeLogs() {
	m.logs.open = false
	if m.logs.watcher != nil {
		_ = m.logs.watcher.Close()
		m.logs.watcher = nil
	}
}

func (m *Model) handleLogChanged(msg logChangedMsg) tea.Cmd {
	if !m.logs.open || msg.watcher != m.logs.watcher {
		return nil
	}
	m.logs.load(m.logLines())
	return waitForLogChange(m.logs.watcher, m.logs.path)
}

// waitForLogChange blocks until path is written or created. It returns nil
// once the watcher is closed.
func waitForLogChange(w *fsnotify.Watcher, path string) tea.Cmd {
	target := filepath.Clean(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return logChangedMsg{watcher: w}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeLogs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Logs):
		m.closeLogs()
	case key.Matches(msg, m.keys.Refresh):
		m.logs.load(m.logLines())
	}
	return m, nil
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	switch {
	case m.logs.path == "":
		return styles.MutedText.Render("Logging to stderr; nothing to show")
	case m.logs.err != nil:
		return styles.DangerText.Render(m.logs.err.Error())
	case len(m.logs.entries) == 0:
		return styles.MutedText.Render("No log entries in " + truncateMiddle(m.logs.path, 60))
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		if e.Message == "" {
			lines = append(lines, styles.FaintText.Render(truncate(e.Raw, max(m.width, 20))))
			continue
		}
		stamp := "--:--:--"
		if !e.Time.IsZero() {
			stamp = e.Time.Local().Format("15:04:05")
		}
		level := fmt.Sprintf("%-5s", strings.ToUpper(e.Level))
		switch e.Level {
		case "warn":
			level = styles.WarningText.Render(level)
		case "error", "dpanic", "panic", "fatal":
			level = styles.DangerText.Render(level)
		default:
			level = styles.MutedText.Render(level)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			styles.FaintText.Render(stamp),
			level,
			styles.AccentText.Render(fmt.Sprintf("%-12s", truncate(e.Logger, 12))),
			e.Message))
	}
	return strings.Join(lines, "\n")
}
