// Package format implements the bit-exact output formats for enhanced
// flow records and port statistics: plain text, CSV and JSON
// (compact/pretty).
package format

import (
	"fmt"
	"sort"
	"strings"

	"FlowForge/internal/core/model"
	"FlowForge/internal/netaddr"
)

// Format selects a serialization for a batch of records.
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatJSON
	FormatJSONPretty
)

// ParseFormat parses an --output-format value, accepting "plain" as an
// alias for text and "pretty" as an alias for json-pretty.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "text", "plain":
		return FormatText, true
	case "csv":
		return FormatCSV, true
	case "json":
		return FormatJSON, true
	case "json-pretty", "pretty":
		return FormatJSONPretty, true
	default:
		return 0, false
	}
}

// SortField names an EnhancedFlowRecord field to order a chunk or
// result set by. Timestamp is always the secondary (tie-break) key.
type SortField int

const (
	SortTimestamp SortField = iota
	SortStreamID
	SortSourceIP
	SortDestinationIP
	SortByteCount
	SortPacketCount
)

// ParseSortField parses a -s/--sort-by value for the flows subcommand.
func ParseSortField(s string) (SortField, bool) {
	switch strings.ToLower(s) {
	case "timestamp":
		return SortTimestamp, true
	case "stream_id":
		return SortStreamID, true
	case "src_ip":
		return SortSourceIP, true
	case "dst_ip":
		return SortDestinationIP, true
	case "bytes":
		return SortByteCount, true
	case "packets":
		return SortPacketCount, true
	default:
		return 0, false
	}
}

// descendingFields lists the fields that sort high-to-low by default;
// every other field sorts ascending, with timestamp as the ascending
// tie-break.
var descendingFields = map[SortField]bool{
	SortByteCount:   true,
	SortPacketCount: true,
}

// SortFlows sorts recs in place by field, breaking ties by ascending
// timestamp.
func SortFlows(recs []model.EnhancedFlowRecord, field SortField) {
	if field == SortTimestamp {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].FirstTs < recs[j].FirstTs })
		return
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		var less, equal bool
		switch field {
		case SortStreamID:
			less, equal = a.StreamID < b.StreamID, a.StreamID == b.StreamID
		case SortSourceIP:
			less, equal = a.SourceIP < b.SourceIP, a.SourceIP == b.SourceIP
		case SortDestinationIP:
			less, equal = a.DestinationIP < b.DestinationIP, a.DestinationIP == b.DestinationIP
		case SortByteCount:
			less, equal = a.ByteCount < b.ByteCount, a.ByteCount == b.ByteCount
		case SortPacketCount:
			less, equal = a.PacketCount < b.PacketCount, a.PacketCount == b.PacketCount
		}
		if equal {
			return a.FirstTs < b.FirstTs
		}
		if descendingFields[field] {
			return !less
		}
		return less
	})
}

// PlainTextHeader returns the fixed-width flow header line (without a
// trailing newline).
func PlainTextHeader() string {
	return fmt.Sprintf("%-12s%-24s%-24s%-18s%-10s%-18s%-10s%-7s%-10s%-12s",
		"STREAM", "FIRST_TIMESTAMP", "LAST_TIMESTAMP", "SRC_IP", "SRC_PORT", "DST_IP", "DST_PORT", "PROTO", "PACKETS", "BYTES")
}

// PlainTextLine formats one record as a fixed-width line, aligned with
// the header produced by PlainTextHeader.
func PlainTextLine(r model.EnhancedFlowRecord) string {
	firstSec, firstNs := r.FirstTs/1_000_000_000, r.FirstTs%1_000_000_000
	lastSec, lastNs := r.LastTs/1_000_000_000, r.LastTs%1_000_000_000

	return fmt.Sprintf("0x%08x  %12d.%09d  %12d.%09d  %-18s%-10d%-18s%-10d%-7d%-10d%-12d",
		r.StreamID,
		firstSec, firstNs,
		lastSec, lastNs,
		netaddr.Uint32ToIPString(r.SourceIP), r.SourcePort,
		netaddr.Uint32ToIPString(r.DestinationIP), r.DestinationPort,
		r.Protocol, r.PacketCount, r.ByteCount)
}

// CSVHeader returns the flow CSV header line.
func CSVHeader() string {
	return "stream_id,first_timestamp,last_timestamp,src_ip,dst_ip,src_port,dst_port,protocol,packet_count,byte_count"
}

// CSVLine formats one record as a CSV line.
func CSVLine(r model.EnhancedFlowRecord) string {
	return fmt.Sprintf("%d,%d,%d,%s,%s,%d,%d,%d,%d,%d",
		r.StreamID, r.FirstTs, r.LastTs,
		netaddr.Uint32ToIPString(r.SourceIP), netaddr.Uint32ToIPString(r.DestinationIP),
		r.SourcePort, r.DestinationPort, r.Protocol, r.PacketCount, r.ByteCount)
}

// JSONRecord formats one record as a JSON object, compact or pretty,
// with or without the trailing comma (last=true suppresses it).
func JSONRecord(r model.EnhancedFlowRecord, pretty, last bool) string {
	comma := ","
	if last {
		comma = ""
	}
	if pretty {
		return fmt.Sprintf("  {\n"+
			"    \"stream_id\": %d,\n"+
			"    \"first_timestamp\": %d,\n"+
			"    \"last_timestamp\": %d,\n"+
			"    \"src_ip\": \"%s\",\n"+
			"    \"dst_ip\": \"%s\",\n"+
			"    \"src_port\": %d,\n"+
			"    \"dst_port\": %d,\n"+
			"    \"protocol\": %d,\n"+
			"    \"packet_count\": %d,\n"+
			"    \"byte_count\": %d\n"+
			"  }%s\n",
			r.StreamID, r.FirstTs, r.LastTs,
			netaddr.Uint32ToIPString(r.SourceIP), netaddr.Uint32ToIPString(r.DestinationIP),
			r.SourcePort, r.DestinationPort, r.Protocol, r.PacketCount, r.ByteCount, comma)
	}
	return fmt.Sprintf("{\"stream_id\":%d,\"first_timestamp\":%d,\"last_timestamp\":%d,"+
		"\"src_ip\":\"%s\",\"dst_ip\":\"%s\",\"src_port\":%d,\"dst_port\":%d,"+
		"\"protocol\":%d,\"packet_count\":%d,\"byte_count\":%d}%s",
		r.StreamID, r.FirstTs, r.LastTs,
		netaddr.Uint32ToIPString(r.SourceIP), netaddr.Uint32ToIPString(r.DestinationIP),
		r.SourcePort, r.DestinationPort, r.Protocol, r.PacketCount, r.ByteCount, comma)
}

// JSONOpen and JSONClose bracket a flow/port JSON array.
func JSONOpen(pretty bool) string {
	if pretty {
		return "[\n"
	}
	return "["
}

func JSONClose(pretty bool) string {
	if pretty {
		return "]\n"
	}
	return "]"
}

// BasicCSVHeader is the header for the out-of-band basic FlowRecord CSV
// format (no stream id, no derived stats).
func BasicCSVHeader() string {
	return "timestamp,src_ip,dst_ip,src_port,dst_port,protocol,length"
}

// BasicCSVLine formats a bare FlowRecord as CSV.
func BasicCSVLine(r model.FlowRecord) string {
	return fmt.Sprintf("%d,%s,%s,%d,%d,%d,%d",
		r.TimestampNs, netaddr.Uint32ToIPString(r.SourceIP), netaddr.Uint32ToIPString(r.DestinationIP),
		r.SourcePort, r.DestinationPort, r.Protocol, r.PacketLength)
}
