package storage

import (
	"database/sql"
	"time"
)

// Session describes one import of capture logs into the database.
type Session struct {
	ID        int64     `json:"ID"`
	StartTime time.Time `json:"startTime"`       // When the import was made
	Source    string    `json:"source"`          // Free form origin, e.g. host or capture device
	Files     []string  `json:"files,omitempty"` // Imported log files in import order
}

type sessionData struct {
	ID        int64
	StartTime time.Time
	Source    string
	Files     sql.NullString
}

type packetData struct {
	SessionID int64
	Seq       int64
	Time      float64
	EventType int
	Addr      string
	AddrType  int
	RSSI      int
	Payload   string
	Raw       string
}
