package adv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnum is returned when a log line carries an event or address
// kind outside the known range. It indicates a corrupt or unsupported log.
var ErrInvalidEnum = errors.New("invalid enumerant")

const (
	AddrPublic AddrType = iota
	AddrRandom
	AddrRPAPublic
	AddrRPARandom
)

// AddrType is the kind of advertiser address as reported by the controller.
type AddrType uint8

var addrTypeNames = [...]string{
	AddrPublic:    "PUBLIC",
	AddrRandom:    "RANDOM",
	AddrRPAPublic: "RPA_PUBLIC",
	AddrRPARandom: "RPA_RANDOM",
}

// ParseAddrType converts the numeric address kind found in a log line.
func ParseAddrType(v int) (AddrType, error) {
	if v < 0 || v >= len(addrTypeNames) {
		return 0, fmt.Errorf("%w: address type %d", ErrInvalidEnum, v)
	}
	return AddrType(v), nil
}

func (t AddrType) String() string {
	if int(t) < len(addrTypeNames) {
		return addrTypeNames[t]
	}
	return fmt.Sprintf("AddrType(%d)", uint8(t))
}

const (
	EventAdvInd EventType = iota
	EventDirectInd
	EventScanInd
	EventNonConnInd
	EventScanRsp
)

// EventType is the advertising PDU type of a received packet.
type EventType uint8

var eventTypeNames = [...]string{
	EventAdvInd:     "ADV_IND",
	EventDirectInd:  "DIR_IND",
	EventScanInd:    "SCAN_IND",
	EventNonConnInd: "NONCONN_IND",
	EventScanRsp:    "SCAN_RSP",
}

// ParseEventType converts the numeric event kind found in a log line.
func ParseEventType(v int) (EventType, error) {
	if v < 0 || v >= len(eventTypeNames) {
		return 0, fmt.Errorf("%w: event type %d", ErrInvalidEnum, v)
	}
	return EventType(v), nil
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Address identifies an advertiser. Two addresses are equal if both the raw
// string and the kind match, so Address can be used as a map key directly.
type Address struct {
	Addr string
	Type AddrType
}

// String returns the display form, e.g. "AA:BB:CC:DD:EE:FF-RANDOM". Display
// ordering of addresses is the lexical order of this string.
func (a Address) String() string {
	return a.Addr + "-" + a.Type.String()
}

// ParseAddress parses the display form produced by Address.String.
func ParseAddress(s string) (Address, error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 {
		return Address{}, fmt.Errorf("invalid address %q: missing type", s)
	}
	for t, name := range addrTypeNames {
		if name == s[i+1:] {
			return Address{Addr: s[:i], Type: AddrType(t)}, nil
		}
	}
	return Address{}, fmt.Errorf("%w: address type %q", ErrInvalidEnum, s[i+1:])
}

// Packet is a single advertisement parsed from one log line.
type Packet struct {
	Time    float64   // Capture time in seconds
	Event   EventType // Advertising PDU type
	Addr    Address   // Source address
	RSSI    int       // Received signal strength in dBm
	Payload string    // Advertising data as hex
	Raw     string    // Original line, including its terminator
}

func (p Packet) String() string {
	return fmt.Sprintf("TIME:%v SRC:%s RSSI:%ddbm", p.Time, p.Addr, p.RSSI)
}

// Fingerprint returns the static part of the packet: the source address and
// the payload. Packets sharing a fingerprint are the same advertisement.
func (p Packet) Fingerprint() string {
	return p.Addr.String() + ";" + p.Payload
}
