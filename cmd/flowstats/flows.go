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
	"FlowForge/internal/progress"
	"FlowForge/internal/queue"
	"FlowForge/internal/rng"
	"FlowForge/internal/worker"
)

func runFlows(args []string) int {
	fs := flag.NewFlagSet("flowstats flows", flag.ExitOnError)
	o := &sharedOptions{}

	fs.IntVar(&o.numThreads, "n", 10, "number of generator threads")
	fs.IntVar(&o.numThreads, "num-threads", 10, "number of generator threads")
	fs.Uint64Var(&o.flowsPerThread, "f", 0, "number of flows per thread")
	fs.Uint64Var(&o.flowsPerThread, "flows-per-thread", 0, "number of flows per thread")
	fs.Uint64Var(&o.totalFlows, "t", 0, "total flows to generate (overrides -f)")
	fs.Uint64Var(&o.totalFlows, "total-flows", 0, "total flows to generate (overrides -f)")
	timeWindowMs := fs.Uint64("w", 10, "flow collector chunk width, in milliseconds")
	fs.Uint64Var(timeWindowMs, "time-window", 10, "flow collector chunk width, in milliseconds")
	fs.Uint64Var(&o.startTimestampNs, "start-timestamp", defaultStartTimestampNs, "start timestamp in nanoseconds")
	fs.Uint64Var(&o.endTimestampNs, "end-timestamp", 0, "end timestamp in nanoseconds (0 = auto-calculate)")
	fs.StringVar(&o.outputFormatStr, "o", "text", "output format: text, csv, json, json-pretty")
	fs.StringVar(&o.outputFormatStr, "output-format", "text", "output format: text, csv, json, json-pretty")
	sortByStr := fs.String("s", "timestamp", "sort by: timestamp, stream_id, src_ip, dst_ip, bytes, packets")
	fs.StringVar(sortByStr, "sort-by", "timestamp", "sort by: timestamp, stream_id, src_ip, dst_ip, bytes, packets")
	fs.BoolVar(&o.noHeader, "no-header", false, "suppress header in output")
	fs.BoolVar(&o.pretty, "pretty", false, "force pretty-printed JSON")
	fs.StringVar(&o.progressStyleStr, "progress-style", "bar", "progress style: bar, simple, spinner, none")
	fs.BoolVar(&o.noProgress, "no-progress", false, "disable progress indicator")
	fs.Int64Var(&o.seed, "seed", 0, "RNG seed (0 = seed from clock)")
	fs.StringVar(&o.profileFile, "profile-file", "", "traffic profile YAML file")
	fs.StringVar(&o.profileName, "profile", "", "named profile to use from --profile-file")
	fs.StringVar(&o.natsSubject, "nats-subject", "", "publish generated flows to this NATS subject")
	fs.StringVar(&o.natsURL, "nats-url", "", "NATS server URL (default nats://127.0.0.1:4222)")
	fs.StringVar(&o.clickhouseDSN, "clickhouse-dsn", "", "write generated flows to this ClickHouse DSN")
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
	sortField, ok := format.ParseSortField(*sortByStr)
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
	chunkWidthNs := *timeWindowMs * 1_000_000

	outSink, err := buildSink(o)
	if err != nil {
		return fatal("%v", err)
	}

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

	q := queue.New[coremodel.EnhancedFlowRecord](4096)

	root := rng.NewRootFromClock()
	if o.seed != 0 {
		root = rng.NewRoot(o.seed)
	}

	workers := make([]*worker.Worker, o.numThreads)
	for i := 0; i < o.numThreads; i++ {
		w, err := worker.New(uint32(i+1), cfg, plan.perWorker[i], root.Derive(), q, tracker, i)
		if err != nil {
			return fatal("%v", err)
		}
		workers[i] = w
	}

	writer := collector.NewFlowWriter(os.Stdout, outputFormat, o.noHeader)
	coll := collector.New(q, chunkWidthNs, sortField, writer, outSink)

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

	go func() {
		workerWg.Wait()
		q.SetDone()
	}()

	collected, runErr := coll.Run()
	cancel()
	progressWg.Wait()

	var generated uint64
	for _, w := range workers {
		generated += w.Generated()
	}

	if closeErr := outSink.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "warning: sink close failed: %v\n", closeErr)
	}

	if runErr != nil {
		return fatal("collector failed: %v", runErr)
	}

	fmt.Fprintf(os.Stderr, "\nSummary:\n")
	fmt.Fprintf(os.Stderr, "  Threads:         %d\n", o.numThreads)
	fmt.Fprintf(os.Stderr, "  Flows generated: %d\n", generated)
	fmt.Fprintf(os.Stderr, "  Flows collected: %d\n", collected)
	fmt.Fprintf(os.Stderr, "  Timestamp range: %d - %d\n", o.startTimestampNs, plan.endTsNs)
	fmt.Fprintf(os.Stderr, "  Elapsed:         %s\n", time.Since(wallStart).Round(time.Millisecond))

	return 0
}
