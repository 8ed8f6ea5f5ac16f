// Package pattern implements the traffic-class generators: one
// synthesizer per named pattern, each producing a single FlowRecord
// from a timestamp and a pair of address pools.
package pattern

import (
	"fmt"
	"strings"

	"FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/netaddr"
	"FlowForge/internal/rng"
)

// Generator produces one FlowRecord per call, drawing addresses from
// the given subnet pools. Each pattern draws packet length from its own
// range, documented on its type; minPkt and maxPkt bound it only where
// that range names them.
type Generator interface {
	Generate(r *rng.Source, timestampNs uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error)
	Type() string
}

func randomPorts(r *rng.Source) (srcPort uint16) {
	return uint16(r.IntRange(49152, 65535))
}

func addresses(r *rng.Source, srcSubnets, dstSubnets []string, srcWeights []float64) (src, dst uint32, err error) {
	src, err = netaddr.RandomIPv4FromSubnets(r, srcSubnets, srcWeights)
	if err != nil {
		return 0, 0, err
	}
	dst, err = netaddr.RandomIPv4FromSubnets(r, dstSubnets, nil)
	if err != nil {
		return 0, 0, err
	}
	return src, dst, nil
}

// randomPattern: proto = TCP w.p. 0.7 else UDP; src_port in
// [49152,65535]; dst_port in [1,65535]; packet length in [min,max].
type randomPattern struct{}

func (randomPattern) Type() string { return "random" }

func (randomPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	proto := model.ProtocolTCP
	if !r.Bool(0.7) {
		proto = model.ProtocolUDP
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: uint16(r.IntRange(1, 65535)),
		Protocol:        proto,
		TimestampNs:     ts,
		PacketLength:    uint32(r.IntRange(int(minPkt), int(maxPkt))),
	}, nil
}

// webPattern: proto=TCP; dst_port 443 w.p. 0.7 else 80; packet length
// bimodal, w.p. 0.4 small [64,200] else large [500,max].
type webPattern struct{}

func (webPattern) Type() string { return "web_traffic" }

func (webPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	dstPort := uint16(80)
	if r.Bool(0.7) {
		dstPort = 443
	}
	var pktLen uint32
	if r.Bool(0.4) {
		pktLen = uint32(r.IntRange(64, 200))
	} else {
		pktLen = uint32(r.IntRange(500, int(maxPkt)))
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: dstPort,
		Protocol:        model.ProtocolTCP,
		TimestampNs:     ts,
		PacketLength:    pktLen,
	}, nil
}

// dnsPattern: proto=UDP; dst_port=53; packet length in [64,512].
type dnsPattern struct{}

func (dnsPattern) Type() string { return "dns_traffic" }

func (dnsPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: 53,
		Protocol:        model.ProtocolUDP,
		TimestampNs:     ts,
		PacketLength:    uint32(r.IntRange(64, 512)),
	}, nil
}

// sshPattern: proto=TCP; dst_port=22; packet length in [100,400].
type sshPattern struct{}

func (sshPattern) Type() string { return "ssh_traffic" }

func (sshPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: 22,
		Protocol:        model.ProtocolTCP,
		TimestampNs:     ts,
		PacketLength:    uint32(r.IntRange(100, 400)),
	}, nil
}

var databasePorts = []uint16{3306, 5432, 27017, 6379}

// databasePattern: proto=TCP; dst_port uniform over the well-known
// database ports; packet length w.p. 0.3 small [64,300] else large
// [500,max].
type databasePattern struct{}

func (databasePattern) Type() string { return "database_traffic" }

func (databasePattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	dstPort := databasePorts[r.IntRange(0, len(databasePorts)-1)]
	var pktLen uint32
	if r.Bool(0.3) {
		pktLen = uint32(r.IntRange(64, 300))
	} else {
		pktLen = uint32(r.IntRange(500, int(maxPkt)))
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: dstPort,
		Protocol:        model.ProtocolTCP,
		TimestampNs:     ts,
		PacketLength:    pktLen,
	}, nil
}

var smtpPorts = []uint16{25, 587, 465}

// smtpPattern: proto=TCP; dst_port uniform over the well-known mail
// ports; packet length in [200,max].
type smtpPattern struct{}

func (smtpPattern) Type() string { return "smtp_traffic" }

func (smtpPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	dstPort := smtpPorts[r.IntRange(0, len(smtpPorts)-1)]
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: dstPort,
		Protocol:        model.ProtocolTCP,
		TimestampNs:     ts,
		PacketLength:    uint32(r.IntRange(200, int(maxPkt))),
	}, nil
}

// ftpPattern: proto=TCP; dst_port 20 w.p. 0.5 else 21; packet length
// [1000,max] on the data port, [64,500] on the control port.
type ftpPattern struct{}

func (ftpPattern) Type() string { return "ftp_traffic" }

func (ftpPattern) Generate(r *rng.Source, ts uint64, srcSubnets, dstSubnets []string, srcWeights []float64, minPkt, maxPkt uint32) (model.FlowRecord, error) {
	src, dst, err := addresses(r, srcSubnets, dstSubnets, srcWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}
	var dstPort uint16 = 21
	var pktLen uint32
	if r.Bool(0.5) {
		dstPort = 20
		pktLen = uint32(r.IntRange(1000, int(maxPkt)))
	} else {
		pktLen = uint32(r.IntRange(64, 500))
	}
	return model.FlowRecord{
		SourceIP:        src,
		DestinationIP:   dst,
		SourcePort:      randomPorts(r),
		DestinationPort: dstPort,
		Protocol:        model.ProtocolTCP,
		TimestampNs:     ts,
		PacketLength:    pktLen,
	}, nil
}

// New maps a pattern-type string (case-insensitive, with the aliases
// http_traffic/https_traffic -> web_traffic and email_traffic ->
// smtp_traffic) to a Generator. Unknown types are ferrors.ErrUnknownPattern.
func New(patternType string) (Generator, error) {
	switch strings.ToLower(patternType) {
	case "random":
		return randomPattern{}, nil
	case "web_traffic", "http_traffic", "https_traffic":
		return webPattern{}, nil
	case "dns_traffic":
		return dnsPattern{}, nil
	case "ssh_traffic":
		return sshPattern{}, nil
	case "database_traffic":
		return databasePattern{}, nil
	case "smtp_traffic", "email_traffic":
		return smtpPattern{}, nil
	case "ftp_traffic":
		return ftpPattern{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ferrors.ErrUnknownPattern, patternType)
	}
}
