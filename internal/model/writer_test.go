package model

import (
	"testing"

	coremodel "FlowForge/internal/core/model"
)

func TestNoopSinkDiscardsSilently(t *testing.T) {
	var s Sink = NoopSink{}
	if err := s.Publish(coremodel.EnhancedFlowRecord{StreamID: 1}); err != nil {
		t.Errorf("NoopSink.Publish returned %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("NoopSink.Close returned %v, want nil", err)
	}
}
