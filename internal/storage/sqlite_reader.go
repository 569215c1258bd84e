package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReaderOption configures a RecordReader with specific filtering criteria.
type ReaderOption func(*SqliteRecordReader)

// WithScenario limits the reader to records of a single scenario.
func WithScenario(name string) ReaderOption {
	return func(r *SqliteRecordReader) {
		r.scenario = &name
	}
}

// WithStartTime excludes records captured before t.
func WithStartTime(t time.Time) ReaderOption {
	return func(r *SqliteRecordReader) {
		r.startTime = &t
	}
}

// WithEndTime excludes records captured after t.
func WithEndTime(t time.Time) ReaderOption {
	return func(r *SqliteRecordReader) {
		r.endTime = &t
	}
}

// WithTimeRange sets both start and end time filters.
func WithTimeRange(startTime, endTime time.Time) ReaderOption {
	return func(r *SqliteRecordReader) {
		r.startTime = &startTime
		r.endTime = &endTime
	}
}

// WithLimit caps the number of records returned.
func WithLimit(n int) ReaderOption {
	return func(r *SqliteRecordReader) {
		r.limit = n
	}
}

// SqliteRecordReader implements RecordReader for SQLite database backend.
type SqliteRecordReader struct {
	db *sql.DB

	sessionID int64
	session   *Session

	scenario  *string    // Optional scenario filter
	startTime *time.Time // Optional start of time range filter
	endTime   *time.Time // Optional end of time range filter
	limit     int        // Optional maximum number of records

	current *Record
	rows    *sql.Rows
	err     error
}

func newSqliteRecordReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*SqliteRecordReader, error) {
	rr := &SqliteRecordReader{
		db:        db,
		sessionID: sessionID,
	}
	for _, opt := range opts {
		opt(rr)
	}
	if err := rr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return rr, nil
}

func (rr *SqliteRecordReader) init(ctx context.Context) error {
	if rr.db == nil {
		return errors.New("database connection required")
	}
	if rr.sessionID <= 0 {
		return errors.New("session ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "validating filters", fn: rr.validateFilters},
		{msg: "loading session", fn: rr.loadSession},
		{msg: "initializing query", fn: rr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (rr *SqliteRecordReader) validateFilters(context.Context) error {
	if rr.startTime != nil && rr.endTime != nil && rr.startTime.After(*rr.endTime) {
		return fmt.Errorf("start time %s is after end time %s", rr.startTime, rr.endTime)
	}
	if rr.limit < 0 {
		return fmt.Errorf("invalid limit: %d", rr.limit)
	}
	return nil
}

func (rr *SqliteRecordReader) loadSession(ctx context.Context) (err error) {
	rr.session, err = loadSession(ctx, rr.db, rr.sessionID)
	return
}

func (rr *SqliteRecordReader) initQuery(ctx context.Context) (err error) {
	var sb strings.Builder
	sb.WriteString(selectRecordColumnsSQL)
	sb.WriteString("\nWHERE r.session_id = ?")

	args := []any{rr.sessionID}
	if rr.scenario != nil {
		sb.WriteString(" AND t.scenario = ?")
		args = append(args, *rr.scenario)
	}
	if rr.startTime != nil {
		sb.WriteString(" AND t.timestamp >= ?")
		args = append(args, rr.startTime.UTC())
	}
	if rr.endTime != nil {
		sb.WriteString(" AND t.timestamp <= ?")
		args = append(args, rr.endTime.UTC())
	}
	sb.WriteString("\nORDER BY t.timestamp, r.id")
	if rr.limit > 0 {
		sb.WriteString("\nLIMIT ?")
		args = append(args, rr.limit)
	}

	if rr.rows, err = rr.db.QueryContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	return nil
}

func (rr *SqliteRecordReader) Session() *Session {
	return rr.session
}

func (rr *SqliteRecordReader) Next(ctx context.Context) bool {
	if rr.err != nil || rr.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		rr.err = ctx.Err()
		return false
	default:
	}

	if !rr.rows.Next() {
		return false
	}

	var d recordData
	if err := rr.rows.Scan(d.scanArgs()...); err != nil {
		rr.err = fmt.Errorf("scanning record: %w", err)
		return false
	}

	rr.current, rr.err = d.toRecord()
	return rr.err == nil
}

func (rr *SqliteRecordReader) Current() *Record {
	return rr.current
}

func (rr *SqliteRecordReader) Error() error {
	if rr.err != nil {
		return rr.err
	}
	if rr.rows != nil {
		return rr.rows.Err()
	}
	return nil
}

func (rr *SqliteRecordReader) Close() error {
	if rr.rows != nil {
		err := rr.rows.Close()
		rr.current = nil
		rr.rows = nil
		return err
	}
	return nil
}
