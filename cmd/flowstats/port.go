package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"FlowForge/internal/collector"
	coremodel "FlowForge/internal/core/model"
	"FlowForge/internal/format"
	"FlowForge/internal/portstat"
	"FlowForge/internal/progress"
	"FlowForge/internal/rng"
	"FlowForge/internal/worker"
)

func runPort(args []string) int {
	fs := flag.NewFlagSet("flowstats port", flag.ExitOnError)
	o := &sharedOptions{}

	fs.IntVar(&o.numThreads, "n", 10, "number of generator threads")
	fs.IntVar(&o.numThreads, "num-threads", 10, "number of generator threads")
	fs.Uint64Var(&o.flowsPerThread, "f", 0, "number of flows per thread")
	fs.Uint64Var(&o.flowsPerThread, "flows-per-thread", 0, "number of flows per thread")
	fs.Uint64Var(&o.totalFlows, "t", 0, "total flows to generate (overrides -f)")
	fs.Uint64Var(&o.totalFlows, "total-flows", 0, "total flows to generate (overrides -f)")
	fs.Uint64Var(&o.startTimestampNs, "start-timestamp", defaultStartTimestampNs, "start timestamp in nanoseconds")
	fs.Uint64Var(&o.endTimestampNs, "end-timestamp", 0, "end timestamp in nanoseconds (0 = auto-calculate)")
	fs.StringVar(&o.outputFormatStr, "o", "text", "output format: text, csv, json, json-pretty")
	fs.StringVar(&o.outputFormatStr, "output-format", "text", "output format: text, csv, json, json-pretty")
	sortByStr := fs.String("s", "total_bytes", "sort by: port, flows, tx_bytes, rx_bytes, total_bytes, tx_packets, rx_packets, total_packets")
	fs.StringVar(sortByStr, "sort-by", "total_bytes", "sort by: port, flows, tx_bytes, rx_bytes, total_bytes, tx_packets, rx_packets, total_packets")
	topN := fs.Int("top", 0, "show only top N results (0 = all)")
	fs.BoolVar(&o.noHeader, "no-header", false, "suppress header in output")
	fs.BoolVar(&o.pretty, "pretty", false, "force pretty-printed JSON")
	fs.StringVar(&o.progressStyleStr, "progress-style", "bar", "progress style: bar, simple, spinner, none")
	fs.BoolVar(&o.noProgress, "no-progress", false, "disable progress indicator")
	fs.Int64Var(&o.seed, "seed", 0, "RNG seed (0 = seed from clock)")
	fs.StringVar(&o.profileFile, "profile-file", "", "traffic profile YAML file")
	fs.StringVar(&o.profileName, "profile", "", "named profile to use from --profile-file")
	fs.StringVar(&o.statusAddr, "status-addr", "", "serve /healthz and /status on this address")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	outputFormat, ok := format.ParseFormat(o.outputFormatStr)
	if !ok {
		return fatal("invalid output format %q", o.outputFormatStr)
	}
	if o.pretty && outputFormat == format.FormatJSON {
		outputFormat = format.FormatJSONPretty
	}
	sortField, ok := portstat.ParseSortField(*sortByStr)
	if !ok {
		return fatal("invalid sort-by field %q", *sortByStr)
	}
	progressStyle, ok := progress.ParseStyle(o.progressStyleStr)
	if !ok {
		return fatal("invalid progress style %q", o.progressStyleStr)
	}
	if o.noProgress {
		progressStyle = progress.StyleNone
	}

	if err := validateSharedOptions(o); err != nil {
		return fatal("%v", err)
	}

	tp, err := o.resolveProfile()
	if err != nil {
		return fatal("%v", err)
	}
	cfg := o.generatorConfig(tp)
	plan := o.plan(cfg)

	tracker := progress.NewTracker(o.startTimestampNs, plan.endTsNs, o.numThreads, progressStyle, progressInterval())

	statusSrv, err := startStatusServer(o.statusAddr, tracker)
	if err != nil {
		return fatal("%v", err)
	}
	if statusSrv != nil {
		defer statusSrv.Shutdown()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	root := rng.NewRootFromClock()
	if o.seed != 0 {
		root = rng.NewRoot(o.seed)
	}

	workers := make([]*worker.Worker, o.numThreads)
	for i := 0; i < o.numThreads; i++ {
		w, err := worker.New(uint32(i+1), cfg, plan.perWorker[i], root.Derive(), nil, tracker, i)
		if err != nil {
			return fatal("%v", err)
		}
		workers[i] = w
	}

	wallStart := time.Now()
	tracker.Start()

	var progressWg sync.WaitGroup
	if progressStyle != progress.StyleNone {
		progressWg.Add(1)
		go func() {
			defer progressWg.Done()
			tracker.Run(ctx, os.Stderr)
		}()
	}

	var workerWg sync.WaitGroup
	for _, w := range workers {
		workerWg.Add(1)
		go func(w *worker.Worker) {
			defer workerWg.Done()
			w.Run(ctx)
		}(w)
	}
	workerWg.Wait()
	cancel()
	progressWg.Wait()

	var generated uint64
	snapshots := make([]map[uint16]coremodel.PortStat, 0, len(workers))
	for _, w := range workers {
		generated += w.Generated()
		snapshots = append(snapshots, w.Ports().Snapshot())
	}

	merged := portstat.Merge(snapshots)
	sorted := portstat.SortedTopN(merged, sortField, true, *topN)

	if err := collector.WritePorts(os.Stdout, sorted, outputFormat, o.noHeader); err != nil {
		return fatal("write failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "\nSummary:\n")
	fmt.Fprintf(os.Stderr, "  Threads:         %d\n", o.numThreads)
	fmt.Fprintf(os.Stderr, "  Flows generated: %d\n", generated)
	fmt.Fprintf(os.Stderr, "  Distinct ports:  %d\n", len(merged))
	fmt.Fprintf(os.Stderr, "  Timestamp range: %d - %d\n", o.startTimestampNs, plan.endTsNs)
	fmt.Fprintf(os.Stderr, "  Elapsed:         %s\n", time.Since(wallStart).Round(time.Millisecond))

	return 0
}
