// Package progress implements the lock-free run-progress gauges and
// the stderr display task that samples them.
package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// Style selects how the display task renders one progress line.
type Style int

const (
	StyleBar Style = iota
	StyleSimple
	StyleSpinner
	StyleNone
)

// ParseStyle parses a --progress-style value.
func ParseStyle(s string) (Style, bool) {
	switch strings.ToLower(s) {
	case "bar":
		return StyleBar, true
	case "simple":
		return StyleSimple, true
	case "spinner":
		return StyleSpinner, true
	case "none":
		return StyleNone, true
	default:
		return 0, false
	}
}

// Tracker holds the live gauges for one run: per-worker current
// simulated timestamps (single-writer, multi-reader, relaxed ordering
// is sufficient since atomics are used) and run-wide flow/byte
// counters.
type Tracker struct {
	startTs   uint64
	endTs     uint64
	current   []atomic.Uint64
	flows     atomic.Uint64
	bytes     atomic.Uint64
	wallStart time.Time
	style     Style
	interval  time.Duration
}

// NewTracker builds a Tracker for numWorkers producers covering the
// simulated timestamp range [startTs, endTs).
func NewTracker(startTs, endTs uint64, numWorkers int, style Style, interval time.Duration) *Tracker {
	t := &Tracker{
		startTs:  startTs,
		endTs:    endTs,
		current:  make([]atomic.Uint64, numWorkers),
		style:    style,
		interval: interval,
	}
	for i := range t.current {
		t.current[i].Store(startTs)
	}
	return t
}

// Start records the wall-clock start time. Call once, before any
// worker begins generating.
func (t *Tracker) Start() {
	t.wallStart = time.Now()
}

// UpdateTimestamp records worker i's current simulated timestamp. Only
// the owning worker should call this for a given index.
func (t *Tracker) UpdateTimestamp(worker int, ts uint64) {
	if worker < 0 || worker >= len(t.current) {
		return
	}
	t.current[worker].Store(ts)
}

// AddFlows atomically adds n to the run-wide flow counter.
func (t *Tracker) AddFlows(n uint64) { t.flows.Add(n) }

// AddBytes atomically adds n to the run-wide byte counter.
func (t *Tracker) AddBytes(n uint64) { t.bytes.Add(n) }

// Flows returns the run-wide flow counter.
func (t *Tracker) Flows() uint64 { return t.flows.Load() }

// Bytes returns the run-wide byte counter.
func (t *Tracker) Bytes() uint64 { return t.bytes.Load() }

// StartTimestamp returns the simulated start timestamp the run was
// configured with.
func (t *Tracker) StartTimestamp() uint64 { return t.startTs }

// EndTimestamp returns the simulated end timestamp the run was
// configured with.
func (t *Tracker) EndTimestamp() uint64 { return t.endTs }

// ElapsedSeconds returns the wall-clock time since Start, in seconds.
func (t *Tracker) ElapsedSeconds() float64 { return t.elapsed().Seconds() }

// minTimestamp returns the minimum simulated timestamp across all
// workers: progress is gated by the slowest worker.
func (t *Tracker) minTimestamp() uint64 {
	if len(t.current) == 0 {
		return t.startTs
	}
	min := t.current[0].Load()
	for i := 1; i < len(t.current); i++ {
		if v := t.current[i].Load(); v < min {
			min = v
		}
	}
	return min
}

// CurrentTimestamp returns the minimum simulated timestamp across all
// workers.
func (t *Tracker) CurrentTimestamp() uint64 { return t.minTimestamp() }

// ProgressFraction returns the run's completion fraction in [0,1],
// based on the slowest worker's simulated timestamp.
func (t *Tracker) ProgressFraction() float64 {
	duration := t.endTs - t.startTs
	if duration == 0 {
		return 1.0
	}
	ts := t.minTimestamp()
	if ts <= t.startTs {
		return 0.0
	}
	if ts >= t.endTs {
		return 1.0
	}
	return float64(ts-t.startTs) / float64(duration)
}

// elapsed returns wall-clock time since Start.
func (t *Tracker) elapsed() time.Duration {
	if t.wallStart.IsZero() {
		return 0
	}
	return time.Since(t.wallStart)
}

// ETA estimates remaining wall-clock time from the elapsed time and
// current progress fraction; zero when progress is at either extreme.
func (t *Tracker) ETA() time.Duration {
	p := t.ProgressFraction()
	if p <= 0 || p >= 1 {
		return 0
	}
	elapsedSec := t.elapsed().Seconds()
	etaSec := elapsedSec*(1/p) - elapsedSec
	return time.Duration(etaSec * float64(time.Second))
}

// ThroughputFlowsPerSec returns the observed flow rate so far.
func (t *Tracker) ThroughputFlowsPerSec() float64 {
	sec := t.elapsed().Seconds()
	if sec < 0.001 {
		return 0
	}
	return float64(t.flows.Load()) / sec
}

// BandwidthGbps returns the observed byte rate so far, in gigabits per second.
func (t *Tracker) BandwidthGbps() float64 {
	sec := t.elapsed().Seconds()
	if sec < 0.001 {
		return 0
	}
	return float64(t.bytes.Load()) * 8 / (sec * 1e9)
}

// Run drives the display task: it sleeps interval, renders one line to
// w per tick, and stops when ctx is cancelled, printing a trailing
// newline. Style StyleNone skips rendering entirely but still honors
// cancellation.
func (t *Tracker) Run(ctx context.Context, w io.Writer) {
	if t.style == StyleNone {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	frames := []string{"|", "/", "-", "\\"}
	frame := 0

	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(w, "\n")
			return
		case <-ticker.C:
			fmt.Fprint(w, t.render(frames[frame%len(frames)]))
			frame++
		}
	}
}

func (t *Tracker) render(spinFrame string) string {
	pct := t.ProgressFraction() * 100
	switch t.style {
	case StyleBar:
		return fmt.Sprintf("\r%s %.1f%% | Time: %s | ETA: %s | %s flows/s | %.2f Gbps",
			buildBar(pct, 30), pct, formatTimestamp(t.CurrentTimestamp()), formatDuration(t.ETA()), formatCount(uint64(t.ThroughputFlowsPerSec())), t.BandwidthGbps())
	case StyleSimple:
		return fmt.Sprintf("\rProgress: %.1f%% - %s flows - ETA: %s", pct, formatCount(t.flows.Load()), formatDuration(t.ETA()))
	case StyleSpinner:
		return fmt.Sprintf("\r%s %.1f%% - %s flows - %s flows/s", spinFrame, pct, formatCount(t.flows.Load()), formatCount(uint64(t.ThroughputFlowsPerSec())))
	default:
		return ""
	}
}

func buildBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	if filled < width {
		b.WriteByte('>')
		b.WriteString(strings.Repeat(" ", width-filled-1))
	}
	b.WriteByte(']')
	return b.String()
}

func formatTimestamp(ts uint64) string {
	return time.Unix(0, int64(ts)).UTC().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	sec := int64(d.Seconds())
	switch {
	case sec < 60:
		return fmt.Sprintf("%ds", sec)
	case sec < 3600:
		return fmt.Sprintf("%dm %ds", sec/60, sec%60)
	default:
		return fmt.Sprintf("%dh %dm", sec/3600, (sec%3600)/60)
	}
}

func formatCount(n uint64) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	case n < 1_000_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	default:
		return fmt.Sprintf("%.1fG", float64(n)/1_000_000_000)
	}
}
