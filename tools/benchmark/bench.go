package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/dataset"
	"github.com/sharedcode/feedbench/repository"
)

type workload struct {
	follows []feedbench.Follow
	tweets  []feedbench.Tweet
}

// stage is the outcome of one benchmark phase.
type stage struct {
	name     string
	ops      int
	duration time.Duration
}

func (s stage) opsPerSecond() float64 {
	if s.duration <= 0 {
		return 0
	}
	return float64(s.ops) / s.duration.Seconds()
}

type bench struct {
	repo     *repository.Repository
	workload feedbench.WorkloadConfig
	out      io.Writer
}

// run loads follows, posts tweets then reads timelines, reporting each stage.
func (b *bench) run(ctx context.Context, w workload) ([]stage, error) {
	var stages []stage
	steps := []struct {
		name string
		fn   func(context.Context, workload) (int, error)
	}{
		{"Follow", b.loadFollows},
		{"Post", b.postTweets},
		{"Timeline", b.readTimelines},
	}
	for _, step := range steps {
		fmt.Fprintf(b.out, "Starting %s benchmark...\n", step.name)
		start := time.Now()
		n, err := step.fn(ctx, w)
		if err != nil {
			return stages, fmt.Errorf("%s stage failed: %w", step.name, err)
		}
		s := stage{name: step.name, ops: n, duration: time.Since(start)}
		fmt.Fprintf(b.out, "%s: %d items in %v (%.2f ops/sec)\n", s.name, s.ops, s.duration, s.opsPerSecond())
		stages = append(stages, s)
	}
	return stages, nil
}

func (b *bench) loadFollows(ctx context.Context, w workload) (int, error) {
	for _, batch := range dataset.Batches(w.follows, b.workload.BatchSize) {
		if err := b.repo.BatchCreateFollows(ctx, batch); err != nil {
			return 0, err
		}
	}
	return len(w.follows), nil
}

func (b *bench) postTweets(ctx context.Context, w workload) (int, error) {
	for _, batch := range dataset.Batches(w.tweets, b.workload.BatchSize) {
		if err := b.repo.BatchPostTweets(ctx, batch); err != nil {
			return 0, err
		}
	}
	return len(w.tweets), nil
}

// readTimelines fetches the timelines of random followers from a pool of workers.
func (b *bench) readTimelines(ctx context.Context, w workload) (int, error) {
	users := readers(w.follows)
	if len(users) == 0 || b.workload.TimelineReads <= 0 {
		return 0, nil
	}
	var next atomic.Int64
	total := int64(b.workload.TimelineReads)
	eg, ctx := errgroup.WithContext(ctx)
	for i, n := 0, max(b.workload.Workers, 1); i < n; i++ {
		eg.Go(func() error {
			for next.Add(1) <= total {
				user := users[rand.Intn(len(users))]
				if _, err := b.repo.GetTimeline(ctx, user, feedbench.DefaultTimelineLimit, 0); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return b.workload.TimelineReads, nil
}

// readers returns the distinct followers in the edge list.
func readers(follows []feedbench.Follow) []feedbench.UserID {
	users := make([]feedbench.UserID, 0, len(follows))
	for _, f := range follows {
		users = append(users, f.Follower)
	}
	slices.Sort(users)
	return slices.Compact(users)
}
