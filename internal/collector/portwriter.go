package collector

import (
	"fmt"
	"io"

	"FlowForge/internal/core/model"
	"FlowForge/internal/format"
)

// WritePorts serializes an already-sorted slice of PortStat as a single
// array, since port aggregation has no streaming requirement: the full
// result is known only after every worker has finished.
func WritePorts(w io.Writer, stats []model.PortStat, f format.Format, noHeader bool) error {
	switch f {
	case format.FormatText:
		if !noHeader {
			if _, err := fmt.Fprintln(w, format.PortTextHeader()); err != nil {
				return err
			}
		}
		for _, s := range stats {
			if _, err := fmt.Fprintln(w, format.PortTextLine(s)); err != nil {
				return err
			}
		}
		return nil
	case format.FormatCSV:
		if !noHeader {
			if _, err := fmt.Fprintln(w, format.PortCSVHeader()); err != nil {
				return err
			}
		}
		for _, s := range stats {
			if _, err := fmt.Fprintln(w, format.PortCSVLine(s)); err != nil {
				return err
			}
		}
		return nil
	case format.FormatJSON, format.FormatJSONPretty:
		pretty := f == format.FormatJSONPretty
		if _, err := fmt.Fprint(w, format.JSONOpen(pretty)); err != nil {
			return err
		}
		for i, s := range stats {
			last := i == len(stats)-1
			if _, err := fmt.Fprint(w, format.PortJSONRecord(s, pretty, last)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprint(w, format.JSONClose(pretty))
		return err
	}
	return nil
}
