package model

import coremodel "FlowForge/internal/core/model"

// Sink defines the interface the optional fan-out destinations (NATS,
// ClickHouse) implement. A Sink is consulted once per enhanced flow
// record on the hot path; an unconfigured Sink is a NoopSink, never
// touched beyond that no-op call.
type Sink interface {
	Publish(rec coremodel.EnhancedFlowRecord) error
	Close() error
}

// NoopSink discards every record. It is the default Sink when no
// --nats-subject or --clickhouse-dsn is configured.
type NoopSink struct{}

func (NoopSink) Publish(coremodel.EnhancedFlowRecord) error { return nil }
func (NoopSink) Close() error                               { return nil }
