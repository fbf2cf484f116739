package purge

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"profile-site/pkg/metrics"
)

// MaxFilesPerRequest is the most URLs the API accepts in one purge request
const MaxFilesPerRequest = 30

// Purger is the cache API used by the dispatcher
type Purger interface {
	PurgeFiles(ctx context.Context, files []string) error
	PurgeEverything(ctx context.Context) error
}

// Result summarises a completed purge run
type Result struct {
	Everything bool
	Batches    int
	URLs       int
}

// Dispatcher sends purge batches one after another
type Dispatcher struct {
	Purger    Purger
	BatchSize int
	Log       *zap.Logger
}

// NewDispatcher creates a dispatcher with the default batch size
func NewDispatcher(p Purger, log *zap.Logger) *Dispatcher {
	return &Dispatcher{Purger: p, BatchSize: MaxFilesPerRequest, Log: log}
}

// Batches splits urls into contiguous chunks of at most size entries
func Batches(urls []string, size int) [][]string {
	if size <= 0 {
		size = MaxFilesPerRequest
	}
	batches := make([][]string, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := min(start+size, len(urls))
		batches = append(batches, urls[start:end])
	}
	return batches
}

// Run purges urls in batches, or the whole zone when urls is empty.
// The first failing request stops the run; later batches are never sent.
func (d *Dispatcher) Run(ctx context.Context, urls []string) (Result, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	if len(urls) == 0 {
		log.Info("No specific URLs derived from changed files, purging everything")
		if err := d.Purger.PurgeEverything(ctx); err != nil {
			metrics.PurgeRequestsTotal.WithLabelValues("everything", "failure").Inc()
			return Result{}, fmt.Errorf("purge everything: %w", err)
		}
		metrics.PurgeRequestsTotal.WithLabelValues("everything", "success").Inc()
		log.Info("Purge everything succeeded")
		return Result{Everything: true}, nil
	}

	batches := Batches(urls, d.BatchSize)
	log.Info("Purging specific URLs", zap.Int("urls", len(urls)), zap.Int("batches", len(batches)))

	for i, batch := range batches {
		log.Debug("Sending purge batch", zap.Int("batch", i+1), zap.Strings("files", batch))

		if err := d.Purger.PurgeFiles(ctx, batch); err != nil {
			metrics.PurgeRequestsTotal.WithLabelValues("files", "failure").Inc()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				apiErr.Batch = i + 1
			}
			return Result{Batches: i, URLs: i * d.batchSize()}, fmt.Errorf("purge batch %d/%d: %w", i+1, len(batches), err)
		}

		metrics.PurgeRequestsTotal.WithLabelValues("files", "success").Inc()
		metrics.PurgedURLsTotal.Add(float64(len(batch)))
	}

	log.Info("Purge specific URLs succeeded")
	return Result{Batches: len(batches), URLs: len(urls)}, nil
}

func (d *Dispatcher) batchSize() int {
	if d.BatchSize <= 0 {
		return MaxFilesPerRequest
	}
	return d.BatchSize
}
