// Package portstat implements the per-port traffic aggregator: each
// worker accumulates a local port -> PortStat map as it produces flows,
// and the consumer merges the per-worker maps once all workers are
// done.
package portstat

import (
	"sort"

	"FlowForge/internal/core/model"
)

// Buffer is the port map a single worker owns exclusively while
// generating. It is not safe for concurrent use.
type Buffer struct {
	stats map[uint16]*model.PortStat
}

// NewBuffer builds an empty per-worker port buffer.
func NewBuffer() *Buffer {
	return &Buffer{stats: make(map[uint16]*model.PortStat)}
}

func (b *Buffer) entry(port uint16) *model.PortStat {
	s, ok := b.stats[port]
	if !ok {
		s = &model.PortStat{Port: port}
		b.stats[port] = s
	}
	return s
}

// Record applies one flow's contribution to the buffer: the source
// port always counts as a flow and gains tx bytes/packets; the
// destination port gains rx bytes/packets, and counts as a flow only
// if it differs from the source port (so a flow with src==dst port is
// counted once, not twice).
func (b *Buffer) Record(srcPort, dstPort uint16, byteCount uint64, packetCount uint32) {
	src := b.entry(srcPort)
	src.FlowCount++
	src.TxBytes += byteCount
	src.TxPackets += uint64(packetCount)

	dst := b.entry(dstPort)
	if srcPort != dstPort {
		dst.FlowCount++
	}
	dst.RxBytes += byteCount
	dst.RxPackets += uint64(packetCount)
}

// Snapshot returns a copy of the buffer's accumulated stats, safe to
// read after the owning worker has signaled completion.
func (b *Buffer) Snapshot() map[uint16]model.PortStat {
	out := make(map[uint16]model.PortStat, len(b.stats))
	for port, s := range b.stats {
		out[port] = *s
	}
	return out
}

// Merge sums every worker buffer's counters per port into a single map.
func Merge(buffers []map[uint16]model.PortStat) map[uint16]model.PortStat {
	merged := make(map[uint16]model.PortStat)
	for _, buf := range buffers {
		for port, s := range buf {
			m := merged[port]
			m.Port = port
			m.FlowCount += s.FlowCount
			m.TxBytes += s.TxBytes
			m.RxBytes += s.RxBytes
			m.TxPackets += s.TxPackets
			m.RxPackets += s.RxPackets
			merged[port] = m
		}
	}
	return merged
}

// SortField names a PortStat field to order results by.
type SortField int

const (
	SortPort SortField = iota
	SortFlowCount
	SortTxBytes
	SortRxBytes
	SortTotalBytes
	SortTxPackets
	SortRxPackets
	SortTotalPackets
)

// ParseSortField parses a --sort-by value, accepting the aliases the
// original CLI accepted ("flows" for flow_count, "bytes" for
// total_bytes, "packets" for total_packets).
func ParseSortField(s string) (SortField, bool) {
	switch s {
	case "port":
		return SortPort, true
	case "flows", "flow_count":
		return SortFlowCount, true
	case "tx_bytes":
		return SortTxBytes, true
	case "rx_bytes":
		return SortRxBytes, true
	case "total_bytes", "bytes":
		return SortTotalBytes, true
	case "tx_packets":
		return SortTxPackets, true
	case "rx_packets":
		return SortRxPackets, true
	case "total_packets", "packets":
		return SortTotalPackets, true
	default:
		return 0, false
	}
}

func fieldValue(s model.PortStat, field SortField) uint64 {
	switch field {
	case SortPort:
		return uint64(s.Port)
	case SortFlowCount:
		return s.FlowCount
	case SortTxBytes:
		return s.TxBytes
	case SortRxBytes:
		return s.RxBytes
	case SortTotalBytes:
		return s.TotalBytes()
	case SortTxPackets:
		return s.TxPackets
	case SortRxPackets:
		return s.RxPackets
	case SortTotalPackets:
		return s.TotalPackets()
	default:
		return 0
	}
}

// SortedTopN converts merged into a slice ordered by field (descending
// unless descending is false), truncated to the first topN entries (0
// means return all).
func SortedTopN(merged map[uint16]model.PortStat, field SortField, descending bool, topN int) []model.PortStat {
	out := make([]model.PortStat, 0, len(merged))
	for _, s := range merged {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		vi, vj := fieldValue(out[i], field), fieldValue(out[j], field)
		if vi == vj {
			return out[i].Port < out[j].Port
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})

	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}
