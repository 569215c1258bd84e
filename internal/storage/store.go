package storage

import (
	"context"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/flight-telemetry/internal/flight"
	"github.com/roman-kulish/flight-telemetry/internal/telemetry"
)

// ErrNotFound is returned when a session or a record does not exist.
var ErrNotFound = errors.New("not found")

// Store provides an interface for persisting telemetry snapshots and the
// reports computed from them. All operations that write to the database
// should be considered atomic.
type Store interface {
	// CreateSession starts a new run and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - label: Free form label of the run (e.g., config file name)
	//   - config: Optional run configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, label string, config any) (sessionID int64, err error)

	// Session retrieves a specific session by its ID. ErrNotFound is
	// returned when it does not exist.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all sessions stored in the database, ordered by start
	// time in ascending order.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// StoreReport saves a telemetry snapshot and its report within a single
	// transaction and returns the record ID.
	StoreReport(ctx context.Context, sessionID int64, t *telemetry.Telemetry, r *flight.Report) (recordID int64, err error)

	// Record retrieves a stored snapshot with its report. ErrNotFound is
	// returned when it does not exist.
	Record(ctx context.Context, id int64) (record *Record, err error)

	// ReadRecords returns an iterator over the records of a session. The
	// reader must be closed after use.
	ReadRecords(ctx context.Context, sessionID int64, opts ...ReaderOption) (RecordReader, error)

	// Close releases the database connections.
	Close() error
}

// RecordReader provides an iterator-based interface for reading records.
type RecordReader interface {
	// Session returns metadata about the session this reader is accessing.
	Session() *Session

	// Next advances the iterator and returns true if there is another
	// record to read, false when the iteration is complete or an error
	// occurred.
	Next(context.Context) bool

	// Current returns the current record. If called after Next() returns
	// false, the behavior is undefined.
	Current() *Record

	// Error returns any error that occurred during iteration.
	Error() error

	// Close releases any resources associated with the reader.
	Close() error
}

var _ Store = (*SqliteStore)(nil)
var _ RecordReader = (*SqliteRecordReader)(nil)
