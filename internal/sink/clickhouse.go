package sink

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/ferrors"
	"FlowForge/internal/model"
	"FlowForge/internal/netaddr"
)

const createFlowRecordsTable = `
CREATE TABLE IF NOT EXISTS flow_records (
    StreamID    UInt32,
    FirstTs     UInt64,
    LastTs      UInt64,
    SrcIP       String,
    DstIP       String,
    SrcPort     UInt16,
    DstPort     UInt16,
    Protocol    UInt8,
    PacketCount UInt32,
    ByteCount   UInt64
) ENGINE = MergeTree()
ORDER BY (StreamID, FirstTs);
`

// batchSize is how many records accumulate before a flush.
const batchSize = 1000

// clickhouseSink batches EnhancedFlowRecords into the flow_records
// table, flushing every batchSize records or on Close.
type clickhouseSink struct {
	mu      sync.Mutex
	conn    driver.Conn
	pending []coremodel.EnhancedFlowRecord
}

// NewClickHouseSink connects with dsn, ensures flow_records exists and
// returns a batching Sink.
func NewClickHouseSink(dsn string) (model.Sink, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: bad clickhouse dsn: %v", ferrors.ErrIO, err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: clickhouse connect: %v", ferrors.ErrIO, err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: clickhouse ping: %v", ferrors.ErrIO, err)
	}
	if err := conn.Exec(context.Background(), createFlowRecordsTable); err != nil {
		return nil, fmt.Errorf("%w: clickhouse create table: %v", ferrors.ErrIO, err)
	}
	log.Println("sink: connected to ClickHouse and ensured flow_records exists")

	return &clickhouseSink{conn: conn}, nil
}

func (s *clickhouseSink) Publish(rec coremodel.EnhancedFlowRecord) error {
	s.mu.Lock()
	s.pending = append(s.pending, rec)
	full := len(s.pending) >= batchSize
	s.mu.Unlock()

	if full {
		return s.flush()
	}
	return nil
}

func (s *clickhouseSink) flush() error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	b, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO flow_records")
	if err != nil {
		return fmt.Errorf("%w: prepare batch: %v", ferrors.ErrIO, err)
	}

	for _, rec := range batch {
		err := b.Append(
			rec.StreamID,
			rec.FirstTs,
			rec.LastTs,
			netaddr.Uint32ToIPString(rec.SourceIP),
			netaddr.Uint32ToIPString(rec.DestinationIP),
			rec.SourcePort,
			rec.DestinationPort,
			rec.Protocol,
			rec.PacketCount,
			rec.ByteCount,
		)
		if err != nil {
			return fmt.Errorf("%w: append to batch: %v", ferrors.ErrIO, err)
		}
	}

	if err := b.Send(); err != nil {
		return fmt.Errorf("%w: send batch: %v", ferrors.ErrIO, err)
	}
	log.Printf("sink: wrote %d flows to ClickHouse", len(batch))
	return nil
}

func (s *clickhouseSink) Close() error {
	return s.flush()
}
