package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errSkipped marks items never fetched because an earlier item failed
var errSkipped = errors.New("skipped after earlier failure")

// RowWriter receives output rows in input order
type RowWriter interface {
	WriteRow(row []string) error
}

// AbortError reports the item a run stopped on. Index is 1-based so the
// operator can resume from it.
type AbortError struct {
	Index int
	ID    string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("ended on item # %d | ID: %s: %v", e.Index, e.ID, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// CollectorConfig holds configuration for the collector
type CollectorConfig struct {
	Workers int
}

// Collector drives a Job over a list of identifiers
type Collector struct {
	workers int
	logger  *zap.Logger
}

// NewCollector creates a collector. Fewer than one worker means sequential.
func NewCollector(config CollectorConfig, logger *zap.Logger) *Collector {
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		workers: workers,
		logger:  logger,
	}
}

// Run processes every id and writes exactly one row per id, in input
// order. Up to the configured number of ids are fetched concurrently but
// rows are only written once every earlier row has been written.
//
// The first fatal job error stops the run: outstanding work is cancelled
// and an *AbortError for that item is returned along with the number of
// rows written before it.
func (c *Collector) Run(ctx context.Context, ids []string, job Job, out RowWriter) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		row  []string
		err  error
		done chan struct{}
	}
	results := make([]result, len(ids))
	for i := range results {
		results[i].done = make(chan struct{})
	}

	// firstFailed is the lowest index whose job failed; later items are
	// skipped instead of fetched
	var firstFailed atomic.Int64
	firstFailed.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	spawned := make(chan struct{})
	go func() {
		defer close(spawned)
		for i, id := range ids {
			g.Go(func() error {
				defer close(results[i].done)
				if err := gctx.Err(); err != nil {
					results[i].err = err
					return nil
				}
				if int64(i) > firstFailed.Load() {
					results[i].err = errSkipped
					return nil
				}
				results[i].row, results[i].err = job.Row(gctx, id)
				if results[i].err != nil {
					recordFailure(&firstFailed, int64(i))
				}
				return nil
			})
		}
	}()

	c.logger.Info("run started",
		zap.String("job", job.Name),
		zap.Int("items", len(ids)),
		zap.Int("workers", c.workers))

	written := 0
	var runErr error
	for i, id := range ids {
		<-results[i].done
		r := results[i]

		if r.err != nil {
			runErr = &AbortError{Index: i + 1, ID: id, Err: r.err}
			c.logger.Error("run aborted", zap.Int("index", i+1), zap.String("id", id), zap.Error(r.err))
			break
		}
		if err := out.WriteRow(r.row); err != nil {
			runErr = fmt.Errorf("failed to write row %d: %w", i+1, err)
			break
		}
		written++
		c.logger.Info("item processed", zap.Int("index", i+1), zap.String("id", id), zap.Strings("row", r.row))
	}

	cancel()
	<-spawned
	_ = g.Wait()

	if runErr == nil {
		c.logger.Info("run finished", zap.String("job", job.Name), zap.Int("rows", written))
	}
	return written, runErr
}

func recordFailure(first *atomic.Int64, i int64) {
	for {
		cur := first.Load()
		if i >= cur || first.CompareAndSwap(cur, i) {
			return
		}
	}
}
