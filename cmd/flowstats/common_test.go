package main

import (
	"errors"
	"testing"

	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	fmodel "FlowForge/internal/model"
)

func TestDistributeSumsExactlyAndRoundsUp(t *testing.T) {
	out := distribute(17, 5)
	var sum uint64
	for _, v := range out {
		sum += v
	}
	if sum != 17 {
		t.Fatalf("distribute(17,5) sums to %d, want 17", sum)
	}
	// 17/5 = 3 remainder 2: first 2 workers get 4, rest get 3.
	want := []uint64{4, 4, 3, 3, 3}
	for i, v := range out {
		if v != want[i] {
			t.Fatalf("distribute(17,5)[%d] = %d, want %d (full: %v)", i, v, want[i], out)
		}
	}
}

func TestDistributeEvenSplit(t *testing.T) {
	out := distribute(100, 4)
	for _, v := range out {
		if v != 25 {
			t.Fatalf("distribute(100,4) = %v, want all 25", out)
		}
	}
}

func TestPlanWithTotalFlowsOverridesPerThread(t *testing.T) {
	o := &sharedOptions{numThreads: 4, totalFlows: 400, startTimestampNs: 1000}
	cfg := coremodel.GeneratorConfig{BandwidthGbps: 10, AveragePacketSize: 800}
	p := o.plan(cfg)
	if p.totalFlows != 400 {
		t.Fatalf("plan().totalFlows = %d, want 400", p.totalFlows)
	}
	var sum uint64
	for _, v := range p.perWorker {
		sum += v
	}
	if sum != 400 {
		t.Fatalf("perWorker sums to %d, want 400", sum)
	}
}

func TestPlanWithEndTimestampDerivesTotal(t *testing.T) {
	cfg := coremodel.GeneratorConfig{BandwidthGbps: 10, AveragePacketSize: 800}
	flowsPerSec := (10.0 * 1e9 / 8.0) / 800.0

	o := &sharedOptions{numThreads: 2, startTimestampNs: 0, endTimestampNs: uint64(1e9)}
	p := o.plan(cfg)
	wantTotal := uint64(1.0 * flowsPerSec)
	if p.totalFlows != wantTotal {
		t.Fatalf("plan().totalFlows = %d, want %d", p.totalFlows, wantTotal)
	}
	if p.endTsNs != o.endTimestampNs {
		t.Fatalf("plan().endTsNs = %d, want the given end-timestamp %d", p.endTsNs, o.endTimestampNs)
	}
}

func TestPlanWithoutEndTimestampDerivesIt(t *testing.T) {
	cfg := coremodel.GeneratorConfig{BandwidthGbps: 10, AveragePacketSize: 800}
	o := &sharedOptions{numThreads: 2, startTimestampNs: 5000, flowsPerThread: 1000}
	p := o.plan(cfg)
	if p.endTsNs <= o.startTimestampNs {
		t.Fatalf("plan().endTsNs = %d, want something greater than start %d", p.endTsNs, o.startTimestampNs)
	}
	if p.totalFlows != 2000 {
		t.Fatalf("plan().totalFlows = %d, want 2000 (2 threads * 1000 flows-per-thread)", p.totalFlows)
	}
}

func TestValidateSharedOptionsRejectsOutOfRangeThreads(t *testing.T) {
	if err := validateSharedOptions(&sharedOptions{numThreads: 0}); !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid for 0 threads, got %v", err)
	}
	if err := validateSharedOptions(&sharedOptions{numThreads: 101}); !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid for 101 threads, got %v", err)
	}
}

func TestValidateSharedOptionsRejectsBadTimestampRange(t *testing.T) {
	o := &sharedOptions{numThreads: 1, startTimestampNs: 1000, endTimestampNs: 500}
	if err := validateSharedOptions(o); !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid for end <= start, got %v", err)
	}
}

func TestValidateSharedOptionsAcceptsValid(t *testing.T) {
	o := &sharedOptions{numThreads: 10, startTimestampNs: 100, endTimestampNs: 200}
	if err := validateSharedOptions(o); err != nil {
		t.Errorf("expected valid options to pass, got %v", err)
	}
}

func TestBuildSinkWithNothingConfiguredReturnsNoop(t *testing.T) {
	s, err := buildSink(&sharedOptions{})
	if err != nil {
		t.Fatalf("buildSink: %v", err)
	}
	if _, ok := s.(fmodel.NoopSink); !ok {
		t.Fatalf("buildSink with no flags set = %T, want fmodel.NoopSink", s)
	}
}

type countingSink struct {
	publishes int
	closes    int
	publishErr error
	closeErr   error
}

func (c *countingSink) Publish(coremodel.EnhancedFlowRecord) error {
	c.publishes++
	return c.publishErr
}

func (c *countingSink) Close() error {
	c.closes++
	return c.closeErr
}

func TestFanoutSinkBroadcastsToAll(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	f := &fanoutSink{sinks: []fmodel.Sink{a, b}}

	if err := f.Publish(coremodel.EnhancedFlowRecord{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if a.publishes != 1 || b.publishes != 1 {
		t.Fatalf("expected both sinks to receive the publish, got a=%d b=%d", a.publishes, b.publishes)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.closes != 1 || b.closes != 1 {
		t.Fatalf("expected both sinks to be closed, got a=%d b=%d", a.closes, b.closes)
	}
}

func TestFanoutSinkClosesAllEvenIfOneErrors(t *testing.T) {
	failing := &countingSink{closeErr: errors.New("boom")}
	ok := &countingSink{}
	f := &fanoutSink{sinks: []fmodel.Sink{failing, ok}}

	if err := f.Close(); err == nil {
		t.Fatal("expected Close to propagate the first error")
	}
	if ok.closes != 1 {
		t.Fatal("expected the second sink to still be closed after the first errored")
	}
}

func TestResolveProfileDefaultWhenNothingConfigured(t *testing.T) {
	o := &sharedOptions{}
	tp, err := o.resolveProfile()
	if err != nil {
		t.Fatalf("resolveProfile: %v", err)
	}
	if len(tp.Patterns) == 0 {
		t.Fatal("expected the default profile to carry at least one pattern")
	}
}

func TestResolveProfileUnknownNameWithoutFile(t *testing.T) {
	o := &sharedOptions{profileName: "exotic"}
	if _, err := o.resolveProfile(); !errors.Is(err, ferrors.ErrConfigInvalid) {
		t.Fatalf("resolveProfile(exotic) = %v, want an error wrapping ferrors.ErrConfigInvalid", err)
	}
}
