// Package batch fans a list of URLs out over a bounded pool of download workers.
package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/multigrab/multigrab/internal/domain"
)

// Executor runs one download unit: validation, invocation build, execution.
type Executor interface {
	Execute(ctx context.Context, cfg domain.DownloadConfig) bool
}

// Coordinator runs batches of downloads against an Executor.
type Coordinator struct {
	executor Executor
	logger   *slog.Logger
}

// NewCoordinator creates a Coordinator. A nil logger defaults to the
// process default.
func NewCoordinator(executor Executor, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		executor: executor,
		logger:   logger,
	}
}

// Result holds one outcome per distinct submitted URL. Duplicate input
// URLs collapse to a single key reflecting the last completed attempt.
type Result struct {
	Outcomes map[string]bool

	order []string // input order, for summary reporting
}

// Summary is the aggregate view of a batch result.
type Summary struct {
	Total     int      // distinct URLs
	Succeeded int
	Failed    []string // failed URLs in input order
}

// AllSucceeded reports whether every URL in the batch succeeded.
func (s Summary) AllSucceeded() bool {
	return len(s.Failed) == 0
}

// Summary derives the aggregate counts from a result. Failed URLs keep
// their first-appearance input order; the total counts distinct map keys,
// not raw input length.
func (r *Result) Summary() Summary {
	seen := make(map[string]bool, len(r.Outcomes))
	summary := Summary{Total: len(r.Outcomes)}

	for _, url := range r.order {
		if seen[url] {
			continue
		}
		seen[url] = true
		if r.Outcomes[url] {
			summary.Succeeded++
		} else {
			summary.Failed = append(summary.Failed, url)
		}
	}

	return summary
}

// Run downloads every URL, deriving a per-URL config from the template and
// bounding concurrency to maxWorkers. A fault in one unit never aborts its
// siblings: the batch always completes with one outcome per distinct URL.
func (c *Coordinator) Run(ctx context.Context, urls []string, template domain.DownloadConfig, maxWorkers int) *Result {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	c.logger.Info("starting batch",
		"urls", len(urls),
		"workers", maxWorkers,
	)

	outcomes := make(map[string]bool, len(urls))
	var mu sync.Mutex

	urlChan := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for url := range urlChan {
				c.logger.Debug("worker picked up url", "worker_id", id, "url", url)
				ok := c.runUnit(ctx, url, template)

				mu.Lock()
				outcomes[url] = ok
				mu.Unlock()
			}
		}(i)
	}

	for _, url := range urls {
		urlChan <- url
	}
	close(urlChan)
	wg.Wait()

	result := &Result{
		Outcomes: outcomes,
		order:    append([]string(nil), urls...),
	}

	summary := result.Summary()
	c.logger.Info("batch finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Total-summary.Succeeded,
	)

	return result
}

// runUnit executes one URL. Panics are converted to a false outcome at
// this boundary so a single bad unit cannot take down the batch.
func (c *Coordinator) runUnit(ctx context.Context, url string, template domain.DownloadConfig) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("download unit panicked", "url", url, "panic", rec)
			ok = false
		}
	}()

	cfg := template.WithURL(url)
	return c.executor.Execute(ctx, cfg)
}
