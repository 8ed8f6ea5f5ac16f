// Package flowgen implements the per-worker flow generator state
// machine: it validates a GeneratorConfig, paces timestamps against a
// simulated link rate, picks a pattern by weight and optionally mirrors
// direction.
package flowgen

import (
	"fmt"
	"math"
	"time"

	"FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/netaddr"
	"FlowForge/internal/pattern"
	"FlowForge/internal/rng"
)

const percentTolerance = 0.01

// Validate checks a GeneratorConfig against every sub-kind of
// ConfigInvalid in a fixed order, so that the first error reported for
// a given bad config is stable.
func Validate(cfg model.GeneratorConfig) error {
	if cfg.BandwidthGbps <= 0 && cfg.FlowsPerSecond <= 0 {
		return ferrors.ErrNoRateSpecified
	}
	if len(cfg.Patterns) == 0 {
		return ferrors.ErrNoPatterns
	}
	var sum float64
	for _, p := range cfg.Patterns {
		sum += p.Percentage
	}
	if math.Abs(sum-100.0) > percentTolerance {
		return fmt.Errorf("%w: got %.4f", ferrors.ErrBadPatternSum, sum)
	}
	if len(cfg.SourceSubnets) == 0 || len(cfg.DestinationSubnets) == 0 {
		return ferrors.ErrNoSubnets
	}
	if len(cfg.SourceWeights) > 0 {
		if len(cfg.SourceWeights) != len(cfg.SourceSubnets) {
			return fmt.Errorf("%w: %d weights for %d subnets", ferrors.ErrBadSourceWeights, len(cfg.SourceWeights), len(cfg.SourceSubnets))
		}
		var wsum float64
		for _, w := range cfg.SourceWeights {
			wsum += w
		}
		if math.Abs(wsum-100.0) > percentTolerance {
			return fmt.Errorf("%w: sum %.4f", ferrors.ErrBadSourceWeights, wsum)
		}
	}
	if cfg.MinPacketSize > cfg.MaxPacketSize {
		return ferrors.ErrBadPacketRange
	}
	if cfg.BidirectionalMode != "" && cfg.BidirectionalMode != "none" && cfg.BidirectionalMode != "random" {
		return ferrors.ErrBadBidiMode
	}
	if cfg.BidirectionalMode == "random" && (cfg.BidirectionalProb < 0 || cfg.BidirectionalProb > 1) {
		return ferrors.ErrBadBidiProb
	}
	return nil
}

// Generator is a per-worker state machine. It is not safe for
// concurrent use; each worker owns exactly one.
type Generator struct {
	cfg              model.GeneratorConfig
	rng              *rng.Source
	patterns         []pattern.Generator
	patternWeights   []float64
	flowsPerSecond   float64
	interArrivalNs   uint64
	startTs          uint64
	currentTs        uint64
	flowCount        uint64
}

// New validates cfg and builds a Generator driven by r. r should be a
// stream derived from the run's root seed (see rng.Root.Derive) so that
// a given seed reproduces the same sequence regardless of how many
// other workers are running concurrently.
func New(cfg model.GeneratorConfig, r *rng.Source) (*Generator, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ferrors.ErrConfigInvalid, err)
	}

	g := &Generator{cfg: cfg, rng: r}

	if cfg.BandwidthGbps > 0 {
		g.flowsPerSecond = netaddr.CalculateFlowsPerSecond(cfg.BandwidthGbps, cfg.AveragePacketSize)
	} else {
		g.flowsPerSecond = cfg.FlowsPerSecond
	}
	g.interArrivalNs = uint64(1e9 / g.flowsPerSecond)

	if cfg.StartTimestampNs != 0 {
		g.startTs = cfg.StartTimestampNs
	} else {
		g.startTs = uint64(time.Now().UnixNano())
	}
	g.currentTs = g.startTs

	g.patterns = make([]pattern.Generator, 0, len(cfg.Patterns))
	g.patternWeights = make([]float64, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		gen, err := pattern.New(p.Type)
		if err != nil {
			return nil, err
		}
		g.patterns = append(g.patterns, gen)
		g.patternWeights = append(g.patternWeights, p.Percentage)
	}

	return g, nil
}

// FlowsPerSecond returns the effective flow rate the generator was
// initialized with.
func (g *Generator) FlowsPerSecond() float64 { return g.flowsPerSecond }

// InterArrivalNs returns the fixed nanosecond step between successive
// Next() timestamps.
func (g *Generator) InterArrivalNs() uint64 { return g.interArrivalNs }

// StartTimestamp returns the timestamp Next() began (or will begin)
// pacing from.
func (g *Generator) StartTimestamp() uint64 { return g.startTs }

// CurrentTimestamp returns the timestamp the next call to Next() will use.
func (g *Generator) CurrentTimestamp() uint64 { return g.currentTs }

// FlowCount returns the number of flows produced since construction or
// the last Reset.
func (g *Generator) FlowCount() uint64 { return g.flowCount }

// Next produces one FlowRecord: picks a pattern by weight, invokes it
// at the current simulated timestamp, optionally mirrors direction, and
// advances the timestamp by InterArrivalNs. It fails only when a
// configured subnet cannot be parsed (Validate does not parse subnets);
// otherwise callers decide when to stop calling it.
func (g *Generator) Next() (model.FlowRecord, error) {
	chosen, err := netaddr.WeightedChoice(g.rng, g.patterns, g.patternWeights)
	if err != nil {
		return model.FlowRecord{}, err
	}

	flow, err := chosen.Generate(g.rng, g.currentTs, g.cfg.SourceSubnets, g.cfg.DestinationSubnets, g.cfg.SourceWeights, g.cfg.MinPacketSize, g.cfg.MaxPacketSize)
	if err != nil {
		return model.FlowRecord{}, err
	}

	if g.cfg.BidirectionalMode == "random" && g.rng.Bool(g.cfg.BidirectionalProb) {
		flow.SourceIP, flow.DestinationIP = flow.DestinationIP, flow.SourceIP
		flow.SourcePort, flow.DestinationPort = flow.DestinationPort, flow.SourcePort
	}

	g.flowCount++
	g.currentTs += g.interArrivalNs

	return flow, nil
}

// Reset restores the generator to its post-New state: the timestamp
// cursor goes back to the start timestamp and the flow counter to zero.
// The RNG stream is not rewound: after Reset, the next N flows carry the
// same timestamps as a fresh Generator's, but their randomly drawn
// fields continue from the stream's current position and differ from
// the sequence a fresh Generator with the same seed would produce.
func (g *Generator) Reset() {
	g.currentTs = g.startTs
	g.flowCount = 0
}
