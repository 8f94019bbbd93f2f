package queue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleMessageAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	msgs := []string{
		`{"type":"item.created","item_id":1,"name":"Widget","description":"A thing","occurred_at":"2024-01-01T00:00:00Z"}`,
		`{"type":"item.deleted","item_id":1,"occurred_at":"2024-01-01T00:00:01Z"}`,
	}
	for _, m := range msgs {
		if err := HandleMessage([]byte(m), dir); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	want := []string{
		`[2024-01-01T00:00:00Z] item.created | item_id=1 | name="Widget" | description="A thing"`,
		`[2024-01-01T00:00:01Z] item.deleted | item_id=1`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	dir := t.TempDir()
	for _, body := range []string{`not json`, `{"type":"item.created"}`} {
		if err := HandleMessage([]byte(body), dir); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, LogFileName)); !os.IsNotExist(err) {
		t.Errorf("log file written for rejected messages: %v", err)
	}
}
