package storage

import (
	"encoding/json"
	"fmt"

	"github.com/roman-kulish/ricorder/internal/adv"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func toPacketData(sessionID, seq int64, p adv.Packet) packetData {
	return packetData{
		SessionID: sessionID,
		Seq:       seq,
		Time:      p.Time,
		EventType: int(p.Event),
		Addr:      p.Addr.Addr,
		AddrType:  int(p.Addr.Type),
		RSSI:      p.RSSI,
		Payload:   p.Payload,
		Raw:       p.Raw,
	}
}

// toPacket validates the stored enumerants the same way the log parser does.
func toPacket(d packetData) (adv.Packet, error) {
	event, err := adv.ParseEventType(d.EventType)
	if err != nil {
		return adv.Packet{}, err
	}
	addrType, err := adv.ParseAddrType(d.AddrType)
	if err != nil {
		return adv.Packet{}, err
	}

	return adv.Packet{
		Time:    d.Time,
		Event:   event,
		Addr:    adv.Address{Addr: d.Addr, Type: addrType},
		RSSI:    d.RSSI,
		Payload: d.Payload,
		Raw:     d.Raw,
	}, nil
}

func toSession(d sessionData) (*Session, error) {
	sess := Session{
		ID:        d.ID,
		StartTime: d.StartTime,
		Source:    d.Source,
	}
	if d.Files.Valid {
		if err := json.Unmarshal([]byte(d.Files.String), &sess.Files); err != nil {
			return nil, fmt.Errorf("unmarshaling files: %w", err)
		}
	}
	return &sess, nil
}
