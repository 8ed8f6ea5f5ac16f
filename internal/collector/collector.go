package collector

import (
	"time"

	"FlowForge/internal/chunker"
	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/format"
	sinkpkg "FlowForge/internal/model"
	"FlowForge/internal/queue"
)

const popTimeout = 10 * time.Millisecond

// Collector is the consumer: it pulls enhanced flow records off a
// bounded queue, buckets them through a timestamp chunker and writes
// each released bucket, sorted, to a FlowWriter. It also hands every
// emitted record to an optional Sink, in the same order the formatter
// sees it. Exactly one goroutine should own a Collector.
type Collector struct {
	q         *queue.Queue[coremodel.EnhancedFlowRecord]
	chunker   *chunker.Chunker
	sortField format.SortField
	writer    *FlowWriter
	sink      sinkpkg.Sink
	collected uint64
}

// New builds a Collector draining q, bucketing with the given chunk
// width, sorting each released bucket by sortField and writing through
// writer. sink may be sinkpkg.NoopSink{} when no fan-out is configured.
func New(q *queue.Queue[coremodel.EnhancedFlowRecord], chunkWidthNs uint64, sortField format.SortField, writer *FlowWriter, sink sinkpkg.Sink) *Collector {
	return &Collector{
		q:         q,
		chunker:   chunker.New(chunkWidthNs),
		sortField: sortField,
		writer:    writer,
		sink:      sink,
	}
}

// Collected returns the number of records the collector has accepted
// from the queue so far.
func (c *Collector) Collected() uint64 { return c.collected }

// Run drains the queue until it is empty and done, draining complete
// chunks as they become available, then flushes whatever remains and
// closes the writer. It returns the total number of records collected.
func (c *Collector) Run() (uint64, error) {
	for {
		rec, ok := c.q.TryPop(popTimeout)
		if ok {
			c.chunker.Add(rec)
			c.collected++
			if err := c.drainComplete(); err != nil {
				return c.collected, err
			}
			continue
		}
		if c.q.IsDone() && c.q.Empty() {
			break
		}
	}

	for _, chunk := range c.chunker.FlushAll() {
		if err := c.emit(chunk); err != nil {
			return c.collected, err
		}
	}

	return c.collected, c.writer.Close()
}

func (c *Collector) drainComplete() error {
	for c.chunker.HasCompleteChunk() {
		if err := c.emit(c.chunker.GetCompleteChunk()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) emit(chunk []coremodel.EnhancedFlowRecord) error {
	format.SortFlows(chunk, c.sortField)
	for _, r := range chunk {
		if err := c.writer.WriteRecord(r); err != nil {
			return err
		}
		if c.sink != nil {
			if err := c.sink.Publish(r); err != nil {
				return err
			}
		}
	}
	return nil
}
