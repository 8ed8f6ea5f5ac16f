// Package sink implements the optional fan-out destinations consuming
// the same enhanced-flow stream the stdout formatters do. Records are
// published as JSON rather than a binary envelope (see DESIGN.md).
package sink

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/model"
)

// natsSink publishes each EnhancedFlowRecord as a JSON message to a
// configured subject. Per-message publish failures are logged and
// counted, not fatal; only connection failure at construction is fatal.
type natsSink struct {
	nc         *nats.Conn
	subject    string
	publishErr uint64
}

// NewNATSSink dials url and returns a Sink publishing to subject.
func NewNATSSink(url, subject string) (model.Sink, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("%w: nats connect %s: %v", ferrors.ErrIO, url, err)
	}
	log.Printf("sink: connected to NATS at %s, publishing to %q", url, subject)
	return &natsSink{nc: nc, subject: subject}, nil
}

func (s *natsSink) Publish(rec coremodel.EnhancedFlowRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		s.publishErr++
		log.Printf("sink: nats marshal failed: %v", err)
		return nil
	}
	if err := s.nc.Publish(s.subject, data); err != nil {
		s.publishErr++
		log.Printf("sink: nats publish failed: %v", err)
	}
	return nil
}

func (s *natsSink) Close() error {
	if s.nc != nil {
		s.nc.Drain()
	}
	if s.publishErr > 0 {
		log.Printf("sink: nats dropped %d records on publish failures", s.publishErr)
	}
	return nil
}
