// Package collector implements the consumer side of the pipeline: the
// try-pop/chunk/sort/emit loop for the flows subcommand, and the
// whole-array writer used once port aggregation has finished merging.
package collector

import (
	"fmt"
	"io"

	"FlowForge/internal/core/model"
	"FlowForge/internal/format"
)

// FlowWriter serializes a stream of EnhancedFlowRecords one at a time,
// without needing the whole set in memory first. For JSON output it
// defers writing each record by one step so it can render the correct
// trailing-comma state once the true last record is known at Close.
type FlowWriter struct {
	w        io.Writer
	f        format.Format
	noHeader bool

	opened  bool
	pending *model.EnhancedFlowRecord
}

// NewFlowWriter builds a FlowWriter over w.
func NewFlowWriter(w io.Writer, f format.Format, noHeader bool) *FlowWriter {
	return &FlowWriter{w: w, f: f, noHeader: noHeader}
}

// Open writes the format's header (or opening bracket), once.
func (fw *FlowWriter) Open() error {
	if fw.opened {
		return nil
	}
	fw.opened = true

	switch fw.f {
	case format.FormatText:
		if !fw.noHeader {
			_, err := fmt.Fprintln(fw.w, format.PlainTextHeader())
			return err
		}
	case format.FormatCSV:
		if !fw.noHeader {
			_, err := fmt.Fprintln(fw.w, format.CSVHeader())
			return err
		}
	case format.FormatJSON:
		_, err := fmt.Fprint(fw.w, format.JSONOpen(false))
		return err
	case format.FormatJSONPretty:
		_, err := fmt.Fprint(fw.w, format.JSONOpen(true))
		return err
	}
	return nil
}

// WriteRecord serializes one record in emission order.
func (fw *FlowWriter) WriteRecord(r model.EnhancedFlowRecord) error {
	if err := fw.Open(); err != nil {
		return err
	}

	switch fw.f {
	case format.FormatText:
		_, err := fmt.Fprintln(fw.w, format.PlainTextLine(r))
		return err
	case format.FormatCSV:
		_, err := fmt.Fprintln(fw.w, format.CSVLine(r))
		return err
	case format.FormatJSON, format.FormatJSONPretty:
		return fw.writeJSONDeferred(r)
	}
	return nil
}

func (fw *FlowWriter) writeJSONDeferred(r model.EnhancedFlowRecord) error {
	pretty := fw.f == format.FormatJSONPretty
	if fw.pending != nil {
		if _, err := fmt.Fprint(fw.w, format.JSONRecord(*fw.pending, pretty, false)); err != nil {
			return err
		}
	}
	rc := r
	fw.pending = &rc
	return nil
}

// Close writes any deferred final record and the footer / closing
// bracket.
func (fw *FlowWriter) Close() error {
	if err := fw.Open(); err != nil {
		return err
	}

	switch fw.f {
	case format.FormatJSON, format.FormatJSONPretty:
		pretty := fw.f == format.FormatJSONPretty
		if fw.pending != nil {
			if _, err := fmt.Fprint(fw.w, format.JSONRecord(*fw.pending, pretty, true)); err != nil {
				return err
			}
			fw.pending = nil
		}
		_, err := fmt.Fprint(fw.w, format.JSONClose(pretty))
		return err
	}
	return nil
}
