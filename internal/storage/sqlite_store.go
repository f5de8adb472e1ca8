package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/ricorder/internal/adv"
)

// 9 bound parameters per packet keeps a batch below SQLite's default limit
// of 999 host parameters.
const maxBatchSize = 100

// WithMaxBatchSize sets the maximum number of packets inserted with a single
// statement.
func WithMaxBatchSize(size int) func(*SqliteStore) {
	return func(s *SqliteStore) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath       string
	maxBatchSize int

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

var _ Store = (*SqliteStore)(nil)

// NewSqliteStore creates a store backed by the Sqlite database at dbPath.
// Connections are opened on first use, the schema is created with the
// first write.
func NewSqliteStore(dbPath string, options ...func(*SqliteStore)) *SqliteStore {
	s := SqliteStore{
		dbPath:       dbPath,
		maxBatchSize: maxBatchSize,
	}
	for _, option := range options {
		option(&s)
	}
	return &s
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, source string, files []string) (sessionID int64, err error) {
	var filesData sql.NullString
	if len(files) > 0 {
		var p []byte
		if p, err = json.Marshal(files); err != nil {
			err = fmt.Errorf("marshaling files: %w", err)
			return
		}
		filesData = sql.NullString{String: string(p), Valid: true}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, source, filesData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var d sessionData
	if err = stmt.QueryRowContext(ctx, id).Scan(&d.ID, &d.StartTime, &d.Source, &d.Files); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}

	return toSession(d)
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var d sessionData
		if err = rows.Scan(&d.ID, &d.StartTime, &d.Source, &d.Files); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}

		var sess *Session
		if sess, err = toSession(d); err != nil {
			return
		}
		sessions = append(sessions, sess)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StorePackets(ctx context.Context, sessionID int64, pkts []adv.Packet) (err error) {
	if len(pkts) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rollbackWithError(tx, &err)
		}
	}()

	var seq int64
	if err = tx.QueryRowContext(ctx, selectMaxSeqSQL, sessionID).Scan(&seq); err != nil {
		return fmt.Errorf("reading packet sequence: %w", err)
	}
	seq++

	for chunk := range slices.Chunk(pkts, s.maxBatchSize) {
		values := make([]any, 0, len(chunk)*9)

		var sb strings.Builder
		sb.WriteString(insertPacketsSQL)

		for i, pkt := range chunk {
			data := toPacketData(sessionID, seq, pkt)
			values = append(values,
				data.SessionID,
				data.Seq,
				data.Time,
				data.EventType,
				data.Addr,
				data.AddrType,
				data.RSSI,
				data.Payload,
				data.Raw,
			)
			seq++

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(insertPacketValues)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting packets: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReadPackets creates a reader over the packets of a session in stored
// order, optionally filtered by address and time.
//
// The returned reader must be closed after use to release database resources.
func (s *SqliteStore) ReadPackets(ctx context.Context, sessionID int64, opts ...ReaderOption) (*SqlitePacketReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqlitePacketReader(ctx, db, sessionID, opts...)
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
