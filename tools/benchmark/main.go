package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/dataset"
	"github.com/sharedcode/feedbench/factory"
	"github.com/sharedcode/feedbench/repository"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	backend := flag.String("backend", "", "Backend: postgres, sqlite, redis or cassandra")
	strategy := flag.String("strategy", "", "Redis timeline strategy: pull or push")
	workers := flag.Int("workers", 0, "Concurrent timeline readers")
	reads := flag.Int("reads", 0, "Total timeline reads")
	batch := flag.Int("batch", 0, "Rows per batch")
	tweets := flag.String("tweets", "", "Tweets CSV file")
	follows := flag.String("follows", "", "Follows CSV file")
	reset := flag.Bool("reset", false, "Wipe the backend before loading")
	logLevel := flag.String("log", "", "Log level: DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	config, err := feedbench.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		config.LogLevelName = *logLevel
	}
	if err := feedbench.ConfigureLogging(config); err != nil {
		fmt.Printf("Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	if *backend != "" {
		config.Backend = feedbench.BackendType(*backend)
	}
	if *strategy != "" {
		config.Strategy = feedbench.Strategy(*strategy)
	}
	if *workers > 0 {
		config.Workload.Workers = *workers
	}
	if *reads > 0 {
		config.Workload.TimelineReads = *reads
	}
	if *batch > 0 {
		config.Workload.BatchSize = *batch
	}
	if *tweets != "" {
		config.Workload.TweetsFile = *tweets
	}
	if *follows != "" {
		config.Workload.FollowsFile = *follows
	}
	if *reset {
		config.Workload.AutoReset = true
	}

	if err := run(context.Background(), config); err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config feedbench.Config) error {
	var w workload
	var err error
	if config.Workload.FollowsFile != "" {
		if w.follows, err = dataset.LoadFollows(config.Workload.FollowsFile); err != nil {
			return err
		}
	}
	if config.Workload.TweetsFile != "" {
		if w.tweets, err = dataset.LoadTweets(config.Workload.TweetsFile); err != nil {
			return err
		}
	}

	adapter, err := factory.Open(ctx, config)
	if err != nil {
		return err
	}
	defer adapter.Close()

	fmt.Printf("feedbench %s: benchmarking %s (%s) with %d follows and %d tweets\n", feedbench.Version, adapter.Name(), config.Strategy, len(w.follows), len(w.tweets))
	b := &bench{
		repo:     repository.New(adapter, repository.DefaultOptions()),
		workload: config.Workload,
		out:      os.Stdout,
	}
	_, err = b.run(ctx, w)
	return err
}
