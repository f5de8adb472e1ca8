// Package entropy tallies raw ADC samples to check how evenly they cover
// the byte range.
package entropy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bins is the number of distinct sample values.
const Bins = 256

// Histogram holds the occurrence count of every sample value.
type Histogram [Bins]int

// Total returns the number of counted samples.
func (h *Histogram) Total() int {
	var n int
	for _, c := range h {
		n += c
	}
	return n
}

// Write prints one "value, count" line per bin.
func (h *Histogram) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, c := range h {
		if _, err := fmt.Fprintf(bw, "%d, %d\n", i, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Count reads one integer sample per line. Lines that are not a number in
// [0, Bins) are skipped and counted as rejects.
func Count(r io.Reader) (h Histogram, rejects int, err error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		v, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err != nil || v < 0 || v >= Bins {
			rejects++
			continue
		}
		h[v]++
	}
	if err = s.Err(); err != nil {
		return h, rejects, fmt.Errorf("reading samples: %w", err)
	}
	return h, rejects, nil
}
