package main

import (
	"fmt"
	"os"
	"time"

	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/httpapi"
	fmodel "FlowForge/internal/model"
	"FlowForge/internal/netaddr"
	"FlowForge/internal/profile"
	"FlowForge/internal/progress"
	"FlowForge/internal/sink"
)

// defaultBandwidthGbps and defaultAveragePacketSize fix the simulated
// link rate used to derive flow pacing: the flows/port subcommands
// expose flow counts and timestamps, not bandwidth, directly.
const (
	defaultBandwidthGbps     = 10.0
	defaultMinPacketSize     = 64
	defaultAveragePacketSize = 800
	defaultMaxPacketSize     = 1500
	defaultFlowsPerThread    = 10000
	defaultStartTimestampNs  = 1704067200000000000
)

// sharedOptions holds every flag common to both the flows and port
// subcommands.
type sharedOptions struct {
	numThreads       int
	flowsPerThread   uint64
	totalFlows       uint64
	startTimestampNs uint64
	endTimestampNs   uint64
	outputFormatStr  string
	pretty           bool
	noHeader         bool
	progressStyleStr string
	noProgress       bool
	seed             int64

	profileFile string
	profileName string

	natsSubject   string
	natsURL       string
	clickhouseDSN string
	statusAddr    string
}

func (o *sharedOptions) resolveProfile() (coremodel.TrafficProfile, error) {
	if o.profileFile == "" {
		if o.profileName != "" && o.profileName != "default" {
			return coremodel.TrafficProfile{}, fmt.Errorf("%w: unknown profile %q (no --profile-file given)", ferrors.ErrConfigInvalid, o.profileName)
		}
		return profile.Default(), nil
	}

	profiles, err := profile.Load(o.profileFile)
	if err != nil {
		return coremodel.TrafficProfile{}, err
	}

	name := o.profileName
	if name == "" {
		name = "default"
	}
	return profile.Resolve(profiles, name)
}

func (o *sharedOptions) generatorConfig(tp coremodel.TrafficProfile) coremodel.GeneratorConfig {
	srcSubnets, srcWeights := tp.SourceSubnets, tp.SourceWeights
	dstSubnets := tp.DestinationSubnets
	if len(srcSubnets) == 0 {
		srcSubnets = []string{""}
	}
	if len(dstSubnets) == 0 {
		dstSubnets = []string{""}
	}

	return coremodel.GeneratorConfig{
		BandwidthGbps:      defaultBandwidthGbps,
		SourceSubnets:      srcSubnets,
		SourceWeights:      srcWeights,
		DestinationSubnets: dstSubnets,
		MinPacketSize:      defaultMinPacketSize,
		AveragePacketSize:  defaultAveragePacketSize,
		MaxPacketSize:      defaultMaxPacketSize,
		StartTimestampNs:   o.startTimestampNs,
		Patterns:           tp.Patterns,
		BidirectionalMode:  "none",
	}
}

// flowPlan is the per-worker flow count distribution plus the
// effective end timestamp, derived per the rules in spec.md §6.
type flowPlan struct {
	perWorker   []uint64
	totalFlows  uint64
	endTsNs     uint64
	flowsPerSec float64
}

func (o *sharedOptions) plan(cfg coremodel.GeneratorConfig) flowPlan {
	flowsPerSec := netaddr.CalculateFlowsPerSecond(cfg.BandwidthGbps, cfg.AveragePacketSize)

	var total uint64
	switch {
	case o.endTimestampNs > 0:
		durationSec := float64(o.endTimestampNs-o.startTimestampNs) / 1e9
		total = uint64(durationSec * flowsPerSec)
	case o.totalFlows > 0:
		total = o.totalFlows
	default:
		perThread := o.flowsPerThread
		if perThread == 0 {
			perThread = defaultFlowsPerThread
		}
		total = perThread * uint64(o.numThreads)
	}

	perWorker := distribute(total, o.numThreads)

	endTs := o.endTimestampNs
	if endTs == 0 {
		durationSec := float64(total) / flowsPerSec
		endTs = o.startTimestampNs + uint64(durationSec*1e9)
	}

	return flowPlan{perWorker: perWorker, totalFlows: total, endTsNs: endTs, flowsPerSec: flowsPerSec}
}

// distribute spreads total as equally as possible across n workers,
// rounding up: the first (total % n) workers get one extra flow.
func distribute(total uint64, n int) []uint64 {
	out := make([]uint64, n)
	base := total / uint64(n)
	rem := total % uint64(n)
	for i := 0; i < n; i++ {
		out[i] = base
		if uint64(i) < rem {
			out[i]++
		}
	}
	return out
}

func progressInterval() time.Duration {
	return 200 * time.Millisecond
}

func validateSharedOptions(o *sharedOptions) error {
	if o.numThreads < 1 || o.numThreads > 100 {
		return fmt.Errorf("%w: num-threads must be between 1 and 100", ferrors.ErrConfigInvalid)
	}
	if o.endTimestampNs > 0 && o.endTimestampNs <= o.startTimestampNs {
		return fmt.Errorf("%w: end-timestamp must be greater than start-timestamp", ferrors.ErrConfigInvalid)
	}
	return nil
}

// fanoutSink publishes to every configured sink, returning the first
// error encountered; Close still runs on every sink regardless.
type fanoutSink struct {
	sinks []fmodel.Sink
}

func (f *fanoutSink) Publish(rec coremodel.EnhancedFlowRecord) error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Publish(rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutSink) Close() error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// buildSink constructs whichever optional sink the flags request; a
// NoopSink when neither is configured. Both NATS and ClickHouse can be
// wired at once via a fanoutSink.
func buildSink(o *sharedOptions) (fmodel.Sink, error) {
	var sinks []fmodel.Sink

	if o.natsSubject != "" {
		url := o.natsURL
		if url == "" {
			url = "nats://127.0.0.1:4222"
		}
		s, err := sink.NewNATSSink(url, o.natsSubject)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if o.clickhouseDSN != "" {
		s, err := sink.NewClickHouseSink(o.clickhouseDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	switch len(sinks) {
	case 0:
		return fmodel.NoopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return &fanoutSink{sinks: sinks}, nil
	}
}

func startStatusServer(addr string, tracker *progress.Tracker) (*httpapi.Server, error) {
	if addr == "" {
		return nil, nil
	}
	srv := httpapi.New(addr, tracker)
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("%w: status server: %v", ferrors.ErrIO, err)
	}
	return srv, nil
}

func fatal(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return 1
}
