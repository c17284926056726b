package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Entry is one line of the routewatch log. Lines that are not JSON log
// records keep only Raw.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Raw     string
}

type record struct {
	TS     string `json:"ts"`
	Level  string `json:"level"`
	Logger string `json:"logger"`
	Msg    string `json:"msg"`
}

// Tail returns the last n entries of the log at path, oldest first. A
// missing file has no entries.
func Tail(path string, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % n
		count = min(count+1, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	start := 0
	if count == n {
		start = next
	}
	entries := make([]Entry, 0, count)
	for i := range count {
		entries = append(entries, Parse(ring[(start+i)%n]))
	}
	return entries, nil
}

// Parse decodes one JSON log line.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	var rec record
	if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.Msg == "" {
		return e
	}
	e.Level = rec.Level
	e.Logger = rec.Logger
	e.Message = rec.Msg
	if ts, err := time.Parse(time.RFC3339Nano, rec.TS); err == nil {
		e.Time = ts
	}
	return e
}
