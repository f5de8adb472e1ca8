package adv

import (
	"io"
	"strings"
)

// CWAServiceMarker is the 16-bit service UUID list (0xFD6F) announced by the
// Corona-Warn-App exposure notification beacons, as it appears in the payload.
const CWAServiceMarker = "03036FFD"

// IsCWA reports whether the packet payload carries the CWA service marker.
func (p Packet) IsCWA() bool {
	return strings.Contains(p.Payload, CWAServiceMarker)
}

// Join writes the raw line of every packet, i.e. the input files filtered
// down to the lines that were parsed successfully.
func (p *Parser) Join(w io.Writer) error {
	return p.writeRaw(w, func(Packet) bool { return true })
}

// FilterCWA writes the raw line of every packet carrying the CWA marker.
func (p *Parser) FilterCWA(w io.Writer) error {
	return p.writeRaw(w, Packet.IsCWA)
}

// FilterNonCWA writes the raw line of every packet without the CWA marker.
func (p *Parser) FilterNonCWA(w io.Writer) error {
	return p.writeRaw(w, func(pkt Packet) bool { return !pkt.IsCWA() })
}

// Compress writes the first packet of every fingerprint and suppresses the
// repetitions. The returned map counts how often each fingerprint was seen,
// the emitted packet included.
func (p *Parser) Compress(w io.Writer) (map[string]int, error) {
	seen := make(map[string]int)
	err := p.writeRaw(w, func(pkt Packet) bool {
		fp := pkt.Fingerprint()
		seen[fp]++
		return seen[fp] == 1
	})
	return seen, err
}

func (p *Parser) writeRaw(w io.Writer, keep func(Packet) bool) error {
	for _, pkt := range p.pkts {
		if !keep(pkt) {
			continue
		}
		if _, err := io.WriteString(w, pkt.Raw); err != nil {
			return err
		}
	}
	return nil
}
