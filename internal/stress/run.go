// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/msq"
)

// ctxCheckInterval is how many items a producer enqueues between context
// checks.
const ctxCheckInterval = 1024

// Report is the outcome of one round.
type Report struct {
	Round      int
	Produced   int
	Consumed   int
	Missing    int // Produced values never consumed
	Duplicates int // Extra deliveries of values consumed more than once
	Reordered  int // Values a consumer saw after a later value of the same producer
	Unexpected int // Consumed values outside every produced range
	Elapsed    time.Duration
	Stats      msq.StatsSnapshot // Queue counter deltas for this round
}

// OK reports whether the round delivered every value exactly once in
// per-producer order.
func (r Report) OK() bool {
	return r.Produced == r.Consumed &&
		r.Missing == 0 && r.Duplicates == 0 && r.Reordered == 0 && r.Unexpected == 0
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("round", r.Round),
		slog.Int("produced", r.Produced),
		slog.Int("consumed", r.Consumed),
		slog.Int("missing", r.Missing),
		slog.Int("duplicates", r.Duplicates),
		slog.Int("reordered", r.Reordered),
		slog.Int("unexpected", r.Unexpected),
		slog.Duration("elapsed", r.Elapsed),
		slog.Int64("next_cas_lost", r.Stats.NextCASLost),
		slog.Int64("item_cas_lost", r.Stats.ItemCASLost),
		slog.Int64("restarts", r.Stats.Restarts),
		slog.Int64("empty_polls", r.Stats.EmptyPolls),
	)
}

// Runner drives producer/consumer rounds against one instrumented queue.
type Runner struct {
	cfg    Config
	q      *msq.Queue[int]
	logger *slog.Logger
}

// NewRunner creates a runner with a fresh instrumented queue.
// A nil logger discards output.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		cfg:    cfg,
		q:      msq.Build[int](msq.NewBuilder().Instrumented()),
		logger: logger,
	}, nil
}

// Queue returns the queue under test.
func (r *Runner) Queue() *msq.Queue[int] {
	return r.q
}

// Run executes cfg.Rounds rounds and returns their reports. It stops at the
// first round that fails to complete; reports of completed rounds are
// returned either way.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, r.cfg.Rounds)
	for n := range r.cfg.Rounds {
		rep, err := r.Round(ctx, n)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
		if rep.OK() {
			r.logger.Info("round complete", "report", rep)
		} else {
			r.logger.Error("round failed verification", "report", rep)
		}
	}
	return reports, nil
}

// Round runs one round: cfg.Producers goroutines each enqueue a disjoint
// range of cfg.ItemsPerProducer integers while cfg.Consumers goroutines poll
// until every value has been collected. Returns an error if ctx is done or
// cfg.Timeout elapses first.
func (r *Runner) Round(ctx context.Context, n int) (Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cfg := r.cfg
	total := cfg.Total()
	seen := make([]atomix.Int32, total)
	var collected atomix.Int64
	var reordered, unexpected atomix.Int64

	workers := int32(cfg.Producers + cfg.Consumers)
	var ready atomix.Int32
	start := make(chan struct{})
	await := func() {
		ready.Add(1)
		<-start
	}

	before, _ := r.q.Stats()
	var wg sync.WaitGroup

	for range cfg.Consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			await()
			last := make([]int, cfg.Producers)
			for i := range last {
				last[i] = -1
			}
			backoff := iox.Backoff{}
			for collected.Load() < int64(total) {
				v, ok := r.q.Poll()
				if !ok {
					if ctx.Err() != nil {
						return
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()
				if v < 0 || v >= total {
					unexpected.Add(1)
					collected.Add(1)
					continue
				}
				producer, seq := v/cfg.ItemsPerProducer, v%cfg.ItemsPerProducer
				if seq <= last[producer] {
					reordered.Add(1)
				}
				last[producer] = seq
				seen[v].Add(1)
				collected.Add(1)
			}
		}()
	}

	for p := range cfg.Producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			await()
			base := id * cfg.ItemsPerProducer
			for i := range cfg.ItemsPerProducer {
				if i%ctxCheckInterval == 0 && ctx.Err() != nil {
					return
				}
				v := base + i
				if err := r.q.Enqueue(&v); err != nil {
					r.logger.Error("enqueue failed", "producer", id, "value", v, "error", err)
					return
				}
			}
		}(p)
	}

	sw := spin.Wait{}
	for ready.Load() < workers {
		sw.Once()
	}
	began := time.Now()
	close(start)
	wg.Wait()
	elapsed := time.Since(began)

	after, _ := r.q.Stats()
	rep := Report{
		Round:      n,
		Produced:   total,
		Consumed:   int(collected.Load()),
		Reordered:  int(reordered.Load()),
		Unexpected: int(unexpected.Load()),
		Elapsed:    elapsed,
		Stats:      after.Sub(before),
	}
	for i := range seen {
		switch c := seen[i].Load(); {
		case c == 0:
			rep.Missing++
		case c > 1:
			rep.Duplicates += int(c) - 1
		}
	}

	if err := ctx.Err(); err != nil && rep.Consumed < total {
		r.drain()
		return rep, fmt.Errorf("stress: round %d: collected %d/%d: %w", n, rep.Consumed, total, err)
	}
	return rep, nil
}

// drain discards leftovers of an aborted round.
func (r *Runner) drain() {
	for {
		if _, ok := r.q.Poll(); !ok {
			return
		}
	}
}
