// Package stats derives packet/byte/duration statistics for an
// already-produced 5-tuple, independent of how it was generated.
package stats

import (
	"FlowForge/internal/core/model"
	"FlowForge/internal/rng"
)

var databasePorts = map[uint16]bool{3306: true, 5432: true, 27017: true, 6379: true}
var smtpPorts = map[uint16]bool{25: true, 587: true, 465: true}

// Generate computes (packet_count, byte_count, duration_ns) for a flow
// carrying protocol packets of average size avgPkt to dstPort.
func Generate(r *rng.Source, avgPkt uint32, protocol uint8, dstPort uint16) model.FlowStats {
	var stats model.FlowStats

	switch {
	case protocol == model.ProtocolTCP && (dstPort == 80 || dstPort == 443):
		stats.PacketCount = uint32(r.IntRange(10, 50))
	case protocol == model.ProtocolTCP && dstPort == 22:
		stats.PacketCount = uint32(r.IntRange(100, 500))
	case protocol == model.ProtocolTCP && databasePorts[dstPort]:
		stats.PacketCount = uint32(r.IntRange(5, 100))
	case protocol == model.ProtocolTCP && smtpPorts[dstPort]:
		stats.PacketCount = uint32(r.IntRange(10, 50))
	case protocol == model.ProtocolTCP:
		stats.PacketCount = uint32(r.IntRange(5, 100))
	case protocol == model.ProtocolUDP && dstPort == 53:
		stats.PacketCount = 2
	case protocol == model.ProtocolUDP:
		stats.PacketCount = uint32(r.IntRange(1, 20))
	default:
		stats.PacketCount = uint32(r.IntRange(1, 10))
	}

	variance := int(avgPkt) / 5
	for i := uint32(0); i < stats.PacketCount; i++ {
		offset := r.IntRange(-variance, variance)
		pktSize := int(avgPkt) + offset
		if pktSize < 64 {
			pktSize = 64
		}
		if pktSize > 1500 {
			pktSize = 1500
		}
		stats.ByteCount += uint64(pktSize)
	}

	switch {
	case stats.PacketCount == 1:
		stats.DurationNs = 0
	case protocol == model.ProtocolTCP && (dstPort == 80 || dstPort == 443):
		interPacketUs := uint64(r.IntRange(10000, 100000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	case protocol == model.ProtocolTCP && dstPort == 22:
		interPacketUs := uint64(r.IntRange(1000, 50000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	case protocol == model.ProtocolTCP && databasePorts[dstPort]:
		interPacketUs := uint64(r.IntRange(1000, 20000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	case protocol == model.ProtocolTCP:
		interPacketUs := uint64(r.IntRange(5000, 50000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	case protocol == model.ProtocolUDP && dstPort == 53:
		stats.DurationNs = uint64(r.IntRange(1000000, 50000000))
	case protocol == model.ProtocolUDP:
		interPacketUs := uint64(r.IntRange(100, 10000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	default:
		interPacketUs := uint64(r.IntRange(1000, 20000))
		stats.DurationNs = uint64(stats.PacketCount-1) * interPacketUs * 1000
	}

	return stats
}
