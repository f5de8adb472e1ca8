package adv

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultBinSize is one hour.
	DefaultBinSize = 3600.0

	// MaxBins limits the number of bins of a single histogram.
	MaxBins = 1 << 20
)

var ErrBinSize = errors.New("invalid bin size")

// Histogram counts packets per time bin, split by CWA and other packets.
// All slices have the same length, one entry per bin.
type Histogram struct {
	BinSize float64
	Start   []float64 // Bin start in seconds
	Labels  []string  // Bin start as UTC date and time
	CWA     []int
	NonCWA  []int
}

// Len returns the number of bins.
func (h *Histogram) Len() int {
	return len(h.Start)
}

func (h *Histogram) open(start float64) {
	sec, frac := math.Modf(start)
	ts := time.Unix(int64(sec), int64(frac*1e9)).UTC()

	h.Start = append(h.Start, start)
	h.Labels = append(h.Labels, ts.Format(time.DateTime))
	h.CWA = append(h.CWA, 0)
	h.NonCWA = append(h.NonCWA, 0)
}

// CountPerBin bins the packets by capture time. The first bin starts at the
// time of the first packet rounded down to binSize, a bin labelled s holds
// the packets with s < time <= s+binSize. Bins are opened in record order,
// a packet earlier than the current bin is counted into the current bin.
//
// A binSize below the float resolution of the capture times, or one that
// would open more than MaxBins bins, is rejected with ErrBinSize.
func (p *Parser) CountPerBin(binSize float64) (Histogram, error) {
	if binSize <= 0 {
		binSize = DefaultBinSize
	}
	if math.IsNaN(binSize) || math.IsInf(binSize, 0) {
		return Histogram{}, fmt.Errorf("%w: %v", ErrBinSize, binSize)
	}

	h := Histogram{BinSize: binSize}
	if len(p.pkts) == 0 {
		return h, nil
	}

	start := math.Floor(p.pkts[0].Time/binSize) * binSize
	if start+binSize == start {
		return Histogram{}, fmt.Errorf("%w: %v is below the time resolution at %v", ErrBinSize, binSize, start)
	}

	for _, pkt := range p.pkts {
		// index of the bin with start < time <= start+binSize
		idx := math.Ceil((pkt.Time-start)/binSize) - 1
		if idx >= MaxBins {
			return Histogram{}, fmt.Errorf("%w: %v opens more than %d bins", ErrBinSize, binSize, MaxBins)
		}
		for float64(h.Len()) <= idx || h.Len() == 0 {
			h.open(start + float64(h.Len())*binSize)
		}

		last := h.Len() - 1
		if pkt.IsCWA() {
			h.CWA[last]++
		} else {
			h.NonCWA[last]++
		}
	}
	return h, nil
}
