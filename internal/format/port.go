package format

import (
	"fmt"

	"FlowForge/internal/core/model"
)

// PortTextHeader returns the fixed-width port statistics header line.
func PortTextHeader() string {
	return fmt.Sprintf("%-8s%-12s%-16s%-16s%-16s%-12s%-12s%-12s",
		"PORT", "FLOWS", "TX_BYTES", "RX_BYTES", "TOTAL_BYTES", "TX_PACKETS", "RX_PACKETS", "TOTAL_PACKETS")
}

// PortTextLine formats one PortStat as a fixed-width line.
func PortTextLine(s model.PortStat) string {
	return fmt.Sprintf("%-8d%-12d%-16d%-16d%-16d%-12d%-12d%-12d",
		s.Port, s.FlowCount, s.TxBytes, s.RxBytes, s.TotalBytes(), s.TxPackets, s.RxPackets, s.TotalPackets())
}

// PortCSVHeader returns the port statistics CSV header line.
func PortCSVHeader() string {
	return "port,flows,tx_bytes,rx_bytes,total_bytes,tx_packets,rx_packets,total_packets"
}

// PortCSVLine formats one PortStat as a CSV line.
func PortCSVLine(s model.PortStat) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%d",
		s.Port, s.FlowCount, s.TxBytes, s.RxBytes, s.TotalBytes(), s.TxPackets, s.RxPackets, s.TotalPackets())
}

// PortJSONRecord formats one PortStat as a JSON object, compact or
// pretty, honoring the trailing comma rule like JSONRecord.
func PortJSONRecord(s model.PortStat, pretty, last bool) string {
	comma := ","
	if last {
		comma = ""
	}
	if pretty {
		return fmt.Sprintf("  {\n"+
			"    \"port\": %d,\n"+
			"    \"flows\": %d,\n"+
			"    \"tx_bytes\": %d,\n"+
			"    \"rx_bytes\": %d,\n"+
			"    \"total_bytes\": %d,\n"+
			"    \"tx_packets\": %d,\n"+
			"    \"rx_packets\": %d,\n"+
			"    \"total_packets\": %d\n"+
			"  }%s\n",
			s.Port, s.FlowCount, s.TxBytes, s.RxBytes, s.TotalBytes(), s.TxPackets, s.RxPackets, s.TotalPackets(), comma)
	}
	return fmt.Sprintf("{\"port\":%d,\"flows\":%d,\"tx_bytes\":%d,\"rx_bytes\":%d,"+
		"\"total_bytes\":%d,\"tx_packets\":%d,\"rx_packets\":%d,\"total_packets\":%d}%s",
		s.Port, s.FlowCount, s.TxBytes, s.RxBytes, s.TotalBytes(), s.TxPackets, s.RxPackets, s.TotalPackets(), comma)
}
