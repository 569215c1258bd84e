package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/storage"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

// WithStore persists every computed report under a new session.
func WithStore(store storage.Store, label string, config any) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.store = store
		o.label = label
		o.config = config
	}
}

// WithOutput sets where the human-readable reports are printed. A nil
// writer disables printing.
func WithOutput(w io.Writer) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.out = w
	}
}

// WithPasses sets how many rounds are taken over the provider's records.
// Values below one mean a single round.
func WithPasses(n int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.passes = n
	}
}

// Orchestrator runs the transform sequence over a batch of telemetry,
// prints the reports and optionally stores them.
type Orchestrator struct {
	seq    *flight.Sequence
	logger *slog.Logger
	out    io.Writer
	passes int

	store  storage.Store
	label  string
	config any
}

// Result pairs a telemetry record with its report and, when stored, its
// record ID.
type Result struct {
	Telemetry *telemetry.Telemetry
	Report    flight.Report
	RecordID  int64
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(seq *flight.Sequence, logger *slog.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := Orchestrator{
		seq:    seq,
		logger: logger,
		passes: 1,
	}

	for _, option := range options {
		option(&o)
	}
	if o.passes < 1 {
		o.passes = 1
	}

	return &o
}

// Run draws the configured number of rounds from the provider, then
// computes, prints and stores the reports in the order they were drawn.
func (o *Orchestrator) Run(ctx context.Context, provider telemetry.Provider) ([]Result, error) {
	n := provider.Len() * o.passes
	if n <= 0 {
		return nil, fmt.Errorf("no telemetry to process")
	}

	batch := make([]*telemetry.Telemetry, n)
	for i := range batch {
		batch[i] = provider.Get()
	}

	snapshots := make([]telemetry.Snapshot, len(batch))
	for i, t := range batch {
		snapshots[i] = t.Snapshot
	}

	reports, err := o.seq.ComputeAll(ctx, snapshots)
	if err != nil {
		return nil, err
	}

	var sessionID int64
	if o.store != nil {
		if sessionID, err = o.store.CreateSession(ctx, o.label, o.config); err != nil {
			return nil, fmt.Errorf("creating session: %w", err)
		}
		o.logger.Info("session created", slog.Int64("sessionID", sessionID), slog.String("label", o.label))
	}

	results := make([]Result, len(batch))
	for i, t := range batch {
		results[i] = Result{Telemetry: t, Report: reports[i]}

		o.logReport(t, &reports[i])

		if o.out != nil {
			if err = PrintReport(o.out, t, &reports[i], o.seq.Parameters()); err != nil {
				return nil, fmt.Errorf("printing report: %w", err)
			}
		}

		if o.store != nil {
			id, err := o.store.StoreReport(ctx, sessionID, t, &reports[i])
			if err != nil {
				return nil, fmt.Errorf("storing report for scenario %s: %w", t.Scenario, err)
			}
			results[i].RecordID = id
		}
	}

	return results, nil
}

func (o *Orchestrator) logReport(t *telemetry.Telemetry, r *flight.Report) {
	o.logger.Debug("report computed",
		slog.String("scenario", t.Scenario),
		slog.Group("report",
			slog.Float64("distance", r.HorizontalDistance),
			slog.Float64("altitude", r.ClampedAltitude),
			slog.Float64("heading", r.HeadingDegrees),
			slog.Float64("battery", r.BatteryAfterDecay),
			slog.Float64("signal", r.SignalDBm),
			slog.String("command", r.VerticalCommand.String()),
			slog.Bool("waypointInTolerance", r.WaypointInTolerance),
		))
}
