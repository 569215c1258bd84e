package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    slog.Level
		invalid bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tc := range testCases {
		got, err := ParseLevel(tc.in)
		if tc.invalid {
			if err == nil {
				t.Errorf("Expected error for level %q", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v (%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, Config{Level: "warn"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", slog.String("scenario", "default"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info record should be filtered out: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "scenario=default") {
		t.Errorf("Expected warn record, got: %s", out)
	}
}

func TestNew_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flightcalc.log")

	var buf bytes.Buffer
	l, err := New(&buf, Config{File: path, JSON: true})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	l.Info("written twice")
	if err = l.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	p, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(p), `"msg":"written twice"`) {
		t.Errorf("Expected JSON record in file, got: %s", p)
	}
	if !strings.Contains(buf.String(), `"msg":"written twice"`) {
		t.Errorf("Expected JSON record on stdout, got: %s", buf.String())
	}
}
