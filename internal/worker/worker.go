// Package worker wraps a flowgen.Generator into a runnable producer:
// it draws flows, derives their statistics, enhances them with the
// stream id and enqueues them for the consumer, updating the shared
// progress gauges as it goes.
package worker

import (
	"context"
	"fmt"
	"log"

	"FlowForge/internal/core/model"
	"FlowForge/internal/flowgen"
	"FlowForge/internal/portstat"
	"FlowForge/internal/progress"
	"FlowForge/internal/queue"
	"FlowForge/internal/rng"
	"FlowForge/internal/stats"
)

// Worker drives one generator stream, producing exactly FlowsToGenerate
// enhanced flow records (fewer if ctx is cancelled first).
type Worker struct {
	StreamID        uint32
	FlowsToGenerate uint64

	gen       *flowgen.Generator
	rng       *rng.Source
	avgPkt    uint32
	out       *queue.Queue[model.EnhancedFlowRecord]
	ports     *portstat.Buffer
	tracker   *progress.Tracker
	slot      int
	generated uint64
}

// New builds a Worker for streamID, generating flowsToGenerate flows
// from cfg, pushing enhanced records to out and recording port
// statistics into its own Buffer (reachable through Ports once Run
// finishes). tracker and slot may be nil/-1 to disable
// progress reporting. out may be nil when the caller only needs the
// port buffer, e.g. the port aggregation subcommand, which never
// reorders or formats individual records.
func New(streamID uint32, cfg model.GeneratorConfig, flowsToGenerate uint64, r *rng.Source, out *queue.Queue[model.EnhancedFlowRecord], tracker *progress.Tracker, slot int) (*Worker, error) {
	gen, err := flowgen.New(cfg, r)
	if err != nil {
		return nil, fmt.Errorf("worker %d: %w", streamID, err)
	}
	return &Worker{
		StreamID:        streamID,
		FlowsToGenerate: flowsToGenerate,
		gen:             gen,
		rng:             r,
		avgPkt:          cfg.AveragePacketSize,
		out:             out,
		ports:           portstat.NewBuffer(),
		tracker:         tracker,
		slot:            slot,
	}, nil
}

// Ports returns the worker's port-statistics buffer. Callers must wait
// for Run to return before reading it.
func (w *Worker) Ports() *portstat.Buffer { return w.ports }

// Generated returns the number of flows actually produced.
func (w *Worker) Generated() uint64 { return w.generated }

// Run produces flows until FlowsToGenerate is reached or ctx is
// cancelled, pushing each enhanced record to out. It never returns an
// error: an error returned by the generator is logged and the worker
// simply stops, so the collector can still finish with whatever was
// produced. Panics are not recovered.
func (w *Worker) Run(ctx context.Context) {
	for i := uint64(0); i < w.FlowsToGenerate; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		flow, err := w.gen.Next()
		if err != nil {
			log.Printf("worker %d: generation failed, stopping early: %v", w.StreamID, err)
			return
		}

		flowStats := stats.Generate(w.rng, w.avgPkt, flow.Protocol, flow.DestinationPort)
		enhanced := model.EnhancedFlowRecord{
			FlowRecord:  flow,
			StreamID:    w.StreamID,
			FirstTs:     flow.TimestampNs,
			LastTs:      flow.TimestampNs + flowStats.DurationNs,
			PacketCount: flowStats.PacketCount,
			ByteCount:   flowStats.ByteCount,
		}

		w.ports.Record(flow.SourcePort, flow.DestinationPort, enhanced.ByteCount, enhanced.PacketCount)
		if w.out != nil {
			w.out.Push(enhanced)
		}
		w.generated++

		if w.tracker != nil {
			w.tracker.UpdateTimestamp(w.slot, flow.TimestampNs)
			w.tracker.AddFlows(1)
			w.tracker.AddBytes(enhanced.ByteCount)
		}
	}
}
