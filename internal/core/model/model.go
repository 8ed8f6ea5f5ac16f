// Package model holds the domain types shared across FlowForge's
// generation, aggregation and output packages.
package model

// Well-known protocol numbers used throughout the pattern generators and
// the statistics synthesizer.
const (
	ProtocolTCP uint8 = 6
	ProtocolUDP uint8 = 17
)

// FlowRecord is a single synthesized 5-tuple, produced by a pattern
// generator and consumed exactly once by the statistics synthesizer.
type FlowRecord struct {
	SourceIP        uint32
	DestinationIP   uint32
	SourcePort      uint16
	DestinationPort uint16
	Protocol        uint8
	TimestampNs     uint64
	PacketLength    uint32
}

// EnhancedFlowRecord augments a FlowRecord with the stream that produced
// it and the derived packet/byte/duration statistics. It is immutable
// after construction and is what flows through the queue, the chunker
// and the formatters.
type EnhancedFlowRecord struct {
	FlowRecord
	StreamID    uint32
	FirstTs     uint64
	LastTs      uint64
	PacketCount uint32
	ByteCount   uint64
}

// FlowStats is the output of the statistics synthesizer: how many
// packets and bytes a flow carried, and how long it lasted.
type FlowStats struct {
	PacketCount uint32
	ByteCount   uint64
	DurationNs  uint64
}

// TrafficPattern names a traffic class and the share of generated flows
// it should account for. A GeneratorConfig's patterns must sum to 100
// (within 0.01) once weighted_choice consumes them.
type TrafficPattern struct {
	Type       string
	Percentage float64
}

// GeneratorConfig is the read-only configuration a FlowGenerator is
// built from. At least one of BandwidthGbps / FlowsPerSecond needs to be
// positive; BandwidthGbps is preferred when both are set.
type GeneratorConfig struct {
	BandwidthGbps      float64
	FlowsPerSecond     float64
	SourceSubnets      []string
	SourceWeights      []float64
	DestinationSubnets []string
	MinPacketSize      uint32
	AveragePacketSize  uint32
	MaxPacketSize      uint32
	StartTimestampNs   uint64
	Patterns           []TrafficPattern
	BidirectionalMode  string  // "none" or "random"
	BidirectionalProb  float64 // consulted only when BidirectionalMode == "random"
}

// PortStat accumulates per-port traffic observed by a single worker or
// merged across all workers.
type PortStat struct {
	Port      uint16
	FlowCount uint64
	TxBytes   uint64
	RxBytes   uint64
	TxPackets uint64
	RxPackets uint64
}

// TotalBytes is tx+rx bytes observed for this port.
func (p PortStat) TotalBytes() uint64 { return p.TxBytes + p.RxBytes }

// TotalPackets is tx+rx packets observed for this port.
func (p PortStat) TotalPackets() uint64 { return p.TxPackets + p.RxPackets }

// RunSummary holds the end-of-run totals a driver prints to stderr and,
// optionally, serves over HTTP while the run is still in flight.
type RunSummary struct {
	Threads         int     `json:"threads"`
	FlowsGenerated  uint64  `json:"flows_generated"`
	FlowsCollected  uint64  `json:"flows_collected"`
	TotalBytes      uint64  `json:"total_bytes"`
	StartTimestamp  uint64  `json:"start_timestamp_ns"`
	EndTimestamp    uint64  `json:"end_timestamp_ns"`
	ProgressPercent float64 `json:"progress_percent"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	ETASeconds      float64 `json:"eta_seconds"`
	ThroughputFps   float64 `json:"throughput_flows_per_sec"`
	BandwidthGbps   float64 `json:"bandwidth_gbps"`
}

// TrafficProfile is a named, reusable mix of traffic patterns plus
// default subnets, the unit loaded by internal/profile from YAML.
type TrafficProfile struct {
	Patterns            []TrafficPattern
	SourceSubnets       []string
	SourceWeights       []float64
	DestinationSubnets  []string
}
