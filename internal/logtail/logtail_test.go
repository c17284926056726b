package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routewatch.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func messages(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

func TestTail(t *testing.T) {
	var lines, all []string
	for i := 1; i <= 10; i++ {
		msg := fmt.Sprintf("cycle %d", i)
		lines = append(lines, fmt.Sprintf(`{"level":"info","ts":"2026-10-14T09:00:%02dZ","logger":"poll.routes","msg":%q}`, i, msg))
		all = append(all, msg)
	}
	path := writeLog(t, lines...)

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "zero", n: 0, want: nil},
		{name: "negative", n: -1, want: nil},
		{name: "partial", n: 4, want: all[6:]},
		{name: "exact", n: 10, want: all},
		{name: "more than exists", n: 25, want: all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Tail(path, tt.n)
			if err != nil {
				t.Fatalf("Tail returned error: %v", err)
			}
			var got []string
			if len(entries) > 0 {
				got = messages(entries)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Tail(%d) mismatch (-want +got):\n%s", tt.n, diff)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	entries, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if entries != nil {
		t.Fatalf("Tail = %#v, want nil", entries)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	path := writeLog(t, `{"level":"warn","msg":"one"}`, "", `{"level":"warn","msg":"two"}`, "")
	entries, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, messages(entries)); diff != "" {
		t.Fatalf("Tail mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	e := Parse(`{"level":"warn","ts":"2026-10-14T09:30:00.5Z","logger":"poll.route","msg":"poll failed","error":"timeout"}`)
	want := Entry{
		Time:    time.Date(2026, 10, 14, 9, 30, 0, 500_000_000, time.UTC),
		Level:   "warn",
		Logger:  "poll.route",
		Message: "poll failed",
		Raw:     e.Raw,
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}

	plain := Parse("panic: runtime error")
	if plain.Message != "" || plain.Raw != "panic: runtime error" {
		t.Fatalf("Parse(plain) = %#v", plain)
	}
}
