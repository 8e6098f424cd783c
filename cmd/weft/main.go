package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/weftlabs/weft/internal/shared/config"
	"github.com/weftlabs/weft/internal/shared/files"
	"github.com/weftlabs/weft/pkg/logging"
	"github.com/weftlabs/weft/pkg/orchestrate"
	"github.com/weftlabs/weft/pkg/workloads"

	_ "github.com/weftlabs/weft/examples/linestats"
	_ "github.com/weftlabs/weft/examples/wordcount"
)

func main() {
	var (
		input        = flag.String("input", "", "input files glob pattern")
		workloadName = flag.String("workload", "", "workload to run (e.g., wordcount, linestats)")
		configPath   = flag.String("config", "", "path to config file (default: weft.yaml)")
		concurrency  = flag.Int("concurrency", 0, "max concurrent jobs (overrides config)")
		top          = flag.Int("top", 20, "number of keys to print")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Input pattern must be specified using the -input flag")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *concurrency > 0 {
		cfg.Orchestrator.MaxConcurrent = *concurrency
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	workload, err := workloads.Get(*workloadName)
	if err != nil {
		logger.Fatal("Unknown workload", "name", *workloadName, "available", workloads.List())
	}

	inputFiles, err := files.Find(*input)
	if err != nil {
		logger.Fatal("Failed to expand input pattern", "pattern", *input, "error", err)
	}
	if len(inputFiles) == 0 {
		logger.Fatal("No input files found", "pattern", *input)
	}

	orchestrator, err := orchestrate.New(orchestrate.Config{
		MaxConcurrent: cfg.Orchestrator.MaxConcurrent,
		JobTimeout:    cfg.Orchestrator.JobTimeout,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("Invalid orchestrator config", "error", err)
	}

	logger.Info("Starting workload",
		"workload", *workloadName,
		"files", len(inputFiles),
		"max_concurrent", cfg.Orchestrator.MaxConcurrent,
	)

	result, err := orchestrate.MapReduce(context.Background(), orchestrator, inputFiles, workload.Map, workload.Reduce)
	if err != nil {
		logger.Fatal("Workload failed", "error", err)
	}

	for _, failure := range result.Failures {
		logger.Warn("Input failed", "job_id", failure.JobID, "error", failure.Err)
	}
	if result.ReduceErr != nil {
		logger.Fatal("Reduce phase failed", "error", result.ReduceErr)
	}

	printCounts(result.Value, *top)

	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}

func printCounts(counts map[string]int, top int) {
	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, entry{key, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	if top > len(entries) {
		top = len(entries)
	}
	for _, e := range entries[:top] {
		fmt.Printf("%s\t%d\n", e.key, e.count)
	}
}
