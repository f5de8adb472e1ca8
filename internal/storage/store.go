package storage

import (
	"context"

	"github.com/roman-kulish/ricorder/internal/adv"
)

// Store provides an interface for keeping parsed advertisement captures.
// Packets are grouped into sessions, one per import, and keep the order in
// which they were parsed.
type Store interface {
	// CreateSession registers a new import and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - source: Free form origin of the capture (host name, device, ...)
	//   - files: Log files the packets were parsed from, in parse order
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, source string, files []string) (sessionID int64, err error)

	// Session retrieves a specific session by its ID.
	Session(ctx context.Context, id int64) (*Session, error)

	// Sessions returns all sessions ordered by start time in ascending order.
	Sessions(ctx context.Context) ([]*Session, error)

	// StorePackets appends packets to a session. Packets keep their order,
	// each call continues the sequence of the previous one and is written in
	// a single transaction.
	StorePackets(ctx context.Context, sessionID int64, pkts []adv.Packet) error

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}

// PacketReader iterates over the packets of a session in stored order.
type PacketReader interface {
	// Next advances the iterator and returns true if there is another packet
	// to read, false when the iteration is complete or if an error occurred.
	Next(context.Context) bool

	// Current returns the current packet.
	Current() *adv.Packet

	// Error returns any error that occurred during iteration.
	Error() error

	// Close releases any resources associated with the reader.
	Close() error
}
