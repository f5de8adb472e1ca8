package adv

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// NodeStats accumulates the samples of one advertiser. Both slices are in
// the order the packets appear in the record set, not sorted by time.
type NodeStats struct {
	Addr  Address
	RSSI  []int
	Times []float64
}

// RSSIStats returns the minimum, maximum and mean signal strength.
func (n *NodeStats) RSSIStats() (lo, hi int, avg float64) {
	if len(n.RSSI) == 0 {
		return 0, 0, 0
	}

	lo, hi = slices.Min(n.RSSI), slices.Max(n.RSSI)

	var sum int
	for _, v := range n.RSSI {
		sum += v
	}
	return lo, hi, float64(sum) / float64(len(n.RSSI))
}

// Intervals returns the differences between consecutive timestamps in
// encounter order. Unordered input yields negative intervals, they are
// kept as they are.
func (n *NodeStats) Intervals() []float64 {
	if len(n.Times) < 2 {
		return nil
	}

	itvl := make([]float64, 0, len(n.Times)-1)
	cur := n.Times[0]
	for _, t := range n.Times[1:] {
		itvl = append(itvl, t-cur)
		cur = t
	}
	return itvl
}

// IntervalStats returns the minimum, maximum and mean advertising interval.
// ok is false if the node has less than two samples.
func (n *NodeStats) IntervalStats() (lo, hi, avg float64, ok bool) {
	itvl := n.Intervals()
	if len(itvl) == 0 {
		return 0, 0, 0, false
	}

	var sum float64
	for _, v := range itvl {
		sum += v
	}
	return slices.Min(itvl), slices.Max(itvl), sum / float64(len(itvl)), true
}

// Nodes builds the per-address statistics. Samples are collected in record
// order, the result is sorted by the display form of the address.
func (p *Parser) Nodes() []*NodeStats {
	index := make(map[Address]*NodeStats)
	var nodes []*NodeStats

	for _, pkt := range p.pkts {
		n, ok := index[pkt.Addr]
		if !ok {
			n = &NodeStats{Addr: pkt.Addr}
			index[pkt.Addr] = n
			nodes = append(nodes, n)
		}
		n.RSSI = append(n.RSSI, pkt.RSSI)
		n.Times = append(n.Times, pkt.Time)
	}

	slices.SortFunc(nodes, func(a, b *NodeStats) int {
		return strings.Compare(a.Addr.String(), b.Addr.String())
	})
	return nodes
}

// NodeInfo writes the signal strength and advertising interval statistics
// of every node.
func (p *Parser) NodeInfo(w io.Writer) error {
	for _, n := range p.Nodes() {
		lo, hi, avg := n.RSSIStats()
		if _, err := fmt.Fprintf(w, "%s:\n  rssi: %ddbm / %ddbm / %.2fdbm (min/max/avg)\n", n.Addr, lo, hi, avg); err != nil {
			return err
		}

		if ilo, ihi, iavg, ok := n.IntervalStats(); ok {
			if _, err := fmt.Fprintf(w, "  itvl: %.2fs / %.2fs / %.2fs\n", ilo, ihi, iavg); err != nil {
				return err
			}
		}
	}
	return nil
}
