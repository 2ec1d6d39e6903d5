package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"info", LevelInfo, false},
		{" DEBUG ", LevelDebug, false},
		{"trace", LevelTrace, false},
		{"warning", LevelWarn, false},
		{"ERROR", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q): unexpected error state %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNew_WritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "WARN")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	log.Info("hidden")
	log.Warn("engine call failed", "op", "analyze")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "engine call failed" || entry["op"] != "analyze" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew_UnknownLevelStillLogs(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "chatty")
	if err == nil {
		t.Fatal("expected error")
	}
	log.Info("started")
	if !strings.Contains(buf.String(), "started") {
		t.Fatal("fallback logger should log at INFO")
	}
}
