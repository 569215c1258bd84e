package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/storage"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

func newTestSequence(t *testing.T) *flight.Sequence {
	t.Helper()

	seq, err := flight.NewSequence(flight.DefaultParameters(), flight.WithWorkers(2))
	if err != nil {
		t.Fatalf("Failed to create sequence: %v", err)
	}
	return seq
}

// sliceProvider cycles through a fixed batch.
type sliceProvider struct {
	batch []*telemetry.Telemetry
	next  int
}

func (p *sliceProvider) Get() *telemetry.Telemetry {
	t := p.batch[p.next%len(p.batch)]
	p.next++
	return t
}

func (p *sliceProvider) Len() int {
	return len(p.batch)
}

func testProvider() *sliceProvider {
	return &sliceProvider{batch: testBatch()}
}

func testBatch() []*telemetry.Telemetry {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	high := telemetry.DefaultSnapshot()
	high.Altitude = 400

	return []*telemetry.Telemetry{
		{Scenario: "default", Timestamp: ts, Snapshot: telemetry.DefaultSnapshot()},
		{Scenario: "high", Timestamp: ts.Add(time.Second), Snapshot: high},
	}
}

func TestOrchestrator_RunPrintsReports(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var out bytes.Buffer
	results, err := NewOrchestrator(newTestSequence(t), logger, WithOutput(&out)).Run(context.Background(), testProvider())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Telemetry.Scenario != "default" || results[1].Telemetry.Scenario != "high" {
		t.Errorf("Results out of order: %s, %s", results[0].Telemetry.Scenario, results[1].Telemetry.Scenario)
	}
	if results[1].Report.ClampedAltitude != 150 {
		t.Errorf("Expected altitude clamped to 150, got %v", results[1].Report.ClampedAltitude)
	}
	if results[0].RecordID != 0 {
		t.Errorf("Expected no record ID without a store, got %d", results[0].RecordID)
	}

	if n := strings.Count(out.String(), "== "); n != 2 {
		t.Errorf("Expected 2 printed reports, got %d", n)
	}
	if strings.Index(out.String(), "== default") > strings.Index(out.String(), "== high") {
		t.Error("Expected reports printed in batch order")
	}
}

func TestOrchestrator_RunStoresReports(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := storage.NewSqliteStore(filepath.Join(t.TempDir(), "flight.sqlite"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})

	o := NewOrchestrator(newTestSequence(t), logger, WithStore(store, "test", flight.DefaultParameters()))
	results, err := o.Run(ctx, testProvider())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Failed to read sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Label != "test" {
		t.Fatalf("Expected one session labelled 'test', got %+v", sessions)
	}

	for _, r := range results {
		if r.RecordID == 0 {
			t.Fatalf("Expected a record ID for scenario %s", r.Telemetry.Scenario)
		}

		rec, err := store.Record(ctx, r.RecordID)
		if err != nil {
			t.Fatalf("Failed to read record %d: %v", r.RecordID, err)
		}
		if rec.SessionID != sessions[0].ID {
			t.Errorf("Expected session %d, got %d", sessions[0].ID, rec.SessionID)
		}
		if rec.Telemetry.Scenario != r.Telemetry.Scenario {
			t.Errorf("Expected scenario %s, got %s", r.Telemetry.Scenario, rec.Telemetry.Scenario)
		}
		if rec.Report != r.Report {
			t.Errorf("Stored report differs for scenario %s:\n%+v\n%+v", r.Telemetry.Scenario, r.Report, rec.Report)
		}
	}
}

func TestOrchestrator_RunEmptyBatch(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := NewOrchestrator(newTestSequence(t), logger).Run(context.Background(), &sliceProvider{}); err == nil {
		t.Fatal("Expected an error for an empty batch")
	}
}

func TestOrchestrator_RunPasses(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		passes   int
		expected []string
	}{
		{"zero means one", 0, []string{"default", "high"}},
		{"one", 1, []string{"default", "high"}},
		{"three", 3, []string{"default", "high", "default", "high", "default", "high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(newTestSequence(t), logger, WithPasses(tt.passes))
			results, err := o.Run(context.Background(), testProvider())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if len(results) != len(tt.expected) {
				t.Fatalf("Expected %d results, got %d", len(tt.expected), len(results))
			}
			for i, want := range tt.expected {
				if got := results[i].Telemetry.Scenario; got != want {
					t.Errorf("Result %d: expected scenario %s, got %s", i, want, got)
				}
			}
		})
	}
}

func TestRun_ScenarioRounds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewConfig()
	c.Settings.Passes = 2
	c.Scenarios = telemetry.Scenarios{
		{Name: "a", Snapshot: telemetry.DefaultSnapshot()},
		{Name: "b", Snapshot: telemetry.DefaultSnapshot()},
	}

	var out bytes.Buffer
	if err := Run(context.Background(), c, logger, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	headers := []string{"== a @", "== b @", "== a @", "== b @"}
	rest := out.String()
	for _, h := range headers {
		i := strings.Index(rest, h)
		if i < 0 {
			t.Fatalf("Expected report %q in order, output:\n%s", h, out.String())
		}
		rest = rest[i+len(h):]
	}
}

func TestRun_WritesDatabase(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	c := NewConfig()
	c.Settings.Quiet = true
	c.Storage = StorageConfig{Enabled: true, DataDirectory: dir}

	var out bytes.Buffer
	if err := Run(context.Background(), c, logger, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output in quiet mode, got %q", out.String())
	}

	matches, err := filepath.Glob(filepath.Join(dir, "flight_session_*.sqlite"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected one database file, got %v", matches)
	}
}

func TestRun_MissingDataDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewConfig()
	c.Storage = StorageConfig{Enabled: true, DataDirectory: filepath.Join(t.TempDir(), "missing")}

	if err := Run(context.Background(), c, logger, io.Discard); err == nil {
		t.Fatal("Expected an error for a missing data directory")
	}
}

func TestRun_LogsSeparateFromReports(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := Run(context.Background(), NewConfig(), logger, &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(logs.String(), "msg=\"report computed\"") {
		t.Errorf("Expected log records on the logger, got: %s", logs.String())
	}
	if strings.Contains(logs.String(), "== default") {
		t.Error("Report text leaked into the log output")
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 14 {
		t.Fatalf("Expected only the 14 report lines, got %d:\n%s", len(lines), out.String())
	}
	for _, l := range lines {
		if strings.Contains(l, "level=") {
			t.Errorf("Log record leaked into the report output: %s", l)
		}
	}
}
