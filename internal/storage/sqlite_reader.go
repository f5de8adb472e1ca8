package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roman-kulish/ricorder/internal/adv"
)

// ReaderOption configures a packet reader with filtering criteria.
type ReaderOption func(*SqlitePacketReader)

// WithAddress limits the reader to packets from a single advertiser.
func WithAddress(a adv.Address) ReaderOption {
	return func(r *SqlitePacketReader) {
		r.addr = &a
	}
}

// WithStartTime excludes packets captured before t (seconds).
func WithStartTime(t float64) ReaderOption {
	return func(r *SqlitePacketReader) {
		r.startTime = &t
	}
}

// WithEndTime excludes packets captured after t (seconds).
func WithEndTime(t float64) ReaderOption {
	return func(r *SqlitePacketReader) {
		r.endTime = &t
	}
}

// WithTimeRange sets both start and end time filters.
func WithTimeRange(startTime, endTime float64) ReaderOption {
	return func(r *SqlitePacketReader) {
		r.startTime = &startTime
		r.endTime = &endTime
	}
}

// SqlitePacketReader implements PacketReader for the SQLite backend.
type SqlitePacketReader struct {
	db        *sql.DB
	sessionID int64

	addr      *adv.Address // Optional address filter
	startTime *float64     // Optional start of time range filter
	endTime   *float64     // Optional end of time range filter

	current *adv.Packet
	rows    *sql.Rows
	err     error
}

var _ PacketReader = (*SqlitePacketReader)(nil)

func newSqlitePacketReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*SqlitePacketReader, error) {
	r := &SqlitePacketReader{
		db:        db,
		sessionID: sessionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return r, nil
}

func (r *SqlitePacketReader) init(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection required")
	}
	if r.sessionID <= 0 {
		return errors.New("session ID required")
	}
	if r.startTime != nil && r.endTime != nil && *r.startTime > *r.endTime {
		return fmt.Errorf("start time %f is after end time %f", *r.startTime, *r.endTime)
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "checking session", fn: r.checkSession},
		{msg: "initializing query", fn: r.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (r *SqlitePacketReader) checkSession(ctx context.Context) error {
	var id int64
	if err := r.db.QueryRowContext(ctx, "SELECT id FROM sessions WHERE id = ?", r.sessionID).Scan(&id); err != nil {
		return fmt.Errorf("querying session %d: %w", r.sessionID, err)
	}
	return nil
}

func (r *SqlitePacketReader) initQuery(ctx context.Context) (err error) {
	var sb strings.Builder
	sb.WriteString(selectPacketsSQL)

	args := []any{r.sessionID}
	if r.addr != nil {
		sb.WriteString("\n    AND addr = ? AND addr_type = ?")
		args = append(args, r.addr.Addr, int(r.addr.Type))
	}
	if r.startTime != nil {
		sb.WriteString("\n    AND time >= ?")
		args = append(args, *r.startTime)
	}
	if r.endTime != nil {
		sb.WriteString("\n    AND time <= ?")
		args = append(args, *r.endTime)
	}
	sb.WriteString("\nORDER BY seq")

	r.rows, err = r.db.QueryContext(ctx, sb.String(), args...)
	return err
}

func (r *SqlitePacketReader) Next(ctx context.Context) bool {
	if r.err != nil || r.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	if !r.rows.Next() {
		r.current = nil
		return false
	}

	var d packetData
	if r.err = r.rows.Scan(&d.Time, &d.EventType, &d.Addr, &d.AddrType, &d.RSSI, &d.Payload, &d.Raw); r.err != nil {
		r.err = fmt.Errorf("scanning packet: %w", r.err)
		return false
	}

	pkt, err := toPacket(d)
	if err != nil {
		r.err = fmt.Errorf("converting packet: %w", err)
		return false
	}

	r.current = &pkt
	return true
}

func (r *SqlitePacketReader) Current() *adv.Packet {
	return r.current
}

func (r *SqlitePacketReader) Error() error {
	if r.err != nil {
		return r.err
	}
	if r.rows != nil {
		return r.rows.Err()
	}
	return nil
}

func (r *SqlitePacketReader) Close() error {
	if r.rows != nil {
		err := r.rows.Close()
		r.current = nil
		r.rows = nil
		return err
	}
	return nil
}
