// Package chunker groups arriving enhanced flow records into fixed
// width time buckets and releases the oldest bucket once a strictly
// later one has been observed, reconstructing a globally time-ordered
// stream out of several unordered per-worker producers.
package chunker

import (
	"sort"

	"FlowForge/internal/core/model"
)

// Chunker owns the chunk_id -> records map plus the bookkeeping needed
// to know when the oldest bucket can be safely released. It is not
// safe for concurrent use; the collector owns it exclusively.
type Chunker struct {
	width     uint64
	chunks    map[uint64][]model.EnhancedFlowRecord
	oldestID  uint64
	hasOldest bool
}

// New builds a Chunker with the given bucket width in nanoseconds.
func New(widthNs uint64) *Chunker {
	return &Chunker{width: widthNs, chunks: make(map[uint64][]model.EnhancedFlowRecord)}
}

// Add files rec into the bucket its FirstTs falls into. The first
// record ever added fixes the oldest bucket id.
func (c *Chunker) Add(rec model.EnhancedFlowRecord) {
	id := rec.FirstTs / c.width
	c.chunks[id] = append(c.chunks[id], rec)
	if !c.hasOldest {
		c.oldestID = id
		c.hasOldest = true
	}
}

// HasCompleteChunk reports whether a bucket strictly later than the
// oldest has been observed, meaning the oldest bucket can be released.
func (c *Chunker) HasCompleteChunk() bool {
	if !c.hasOldest || len(c.chunks) == 0 {
		return false
	}
	for id := range c.chunks {
		if id > c.oldestID {
			return true
		}
	}
	return false
}

// GetCompleteChunk removes and returns the oldest bucket's records (nil
// if the bucket never received any), then advances the oldest-bucket
// marker by one. Callers should only call this when HasCompleteChunk
// is true, but calling it unconditionally is harmless.
func (c *Chunker) GetCompleteChunk() []model.EnhancedFlowRecord {
	recs := c.chunks[c.oldestID]
	delete(c.chunks, c.oldestID)
	c.oldestID++
	return recs
}

// FlushAll drains every remaining bucket in ascending chunk_id order
// and resets the chunker to its empty state.
func (c *Chunker) FlushAll() [][]model.EnhancedFlowRecord {
	ids := make([]uint64, 0, len(c.chunks))
	for id := range c.chunks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([][]model.EnhancedFlowRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.chunks[id])
	}

	c.chunks = make(map[uint64][]model.EnhancedFlowRecord)
	c.hasOldest = false
	c.oldestID = 0
	return out
}
