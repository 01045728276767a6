package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Ensure BatchProcessor implements the interface.
var _ driving.BatchService = (*BatchProcessor)(nil)

// BatchProcessor extracts every bill in a folder tree with a bounded
// worker pool.
type BatchProcessor struct {
	finder    driven.BillFinder
	extractor driving.ExtractionService
	clock     driven.Clock
	logger    *slog.Logger
}

// NewBatchProcessor creates a batch processor. A nil clock reads the wall
// clock and a nil logger uses the process logger.
func NewBatchProcessor(
	finder driven.BillFinder,
	extractor driving.ExtractionService,
	clock driven.Clock,
	logger *slog.Logger,
) *BatchProcessor {
	return &BatchProcessor{
		finder:    finder,
		extractor: extractor,
		clock:     clock,
		logger:    logger,
	}
}

func (b *BatchProcessor) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return logger.L()
}

// Discover lists bill files under root, optionally keeping only those
// whose inferred installation matches.
func (b *BatchProcessor) Discover(ctx context.Context, root, installation string) ([]domain.BillFile, error) {
	files, err := b.finder.Find(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if installation == "" {
		return files, nil
	}

	kept := files[:0]
	for _, f := range files {
		if f.Hints.Installation == installation {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// Run extracts every discovered file.
func (b *BatchProcessor) Run(ctx context.Context, root string, opts domain.BatchOptions) (*domain.BatchReport, error) {
	files, err := b.Discover(ctx, root, opts.Installation)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = domain.DefaultBatchWorkers
	}

	report := &domain.BatchReport{
		RunID:     uuid.NewString(),
		Root:      root,
		StartedAt: b.now(),
		Items:     make([]domain.BatchItem, len(files)),
	}
	log := b.log().With("run_id", report.RunID)
	log.Info("batch.start", "root", root, "files", len(files), "workers", workers, "rate", opts.Rate)

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	var (
		mu       sync.Mutex
		progress = domain.BatchProgress{Total: len(files)}
	)
	finish := func(item domain.BatchItem) {
		mu.Lock()
		defer mu.Unlock()
		progress.Done++
		if item.Failed() {
			progress.Failed++
		}
		progress.Last = item.Path
		if opts.Progress != nil {
			opts.Progress(progress)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				break
			}
		}
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			hints := file.Hints
			if opts.ClientID != "" {
				hints.ClientID = opts.ClientID
			}

			item := domain.BatchItem{Path: file.Path}
			res, err := b.extractor.ExtractFile(gctx, file.Path, hints)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				item.Error = err.Error()
				log.Warn("batch.item_failed", "path", file.Path, "error", err)
			} else {
				item.Result = res
			}

			report.Items[i] = item
			finish(item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", root, err)
	}

	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Path < report.Items[j].Path })
	report.FinishedAt = b.now()

	log.Info("batch.done",
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"elapsed_ms", report.Duration().Milliseconds(),
	)
	return report, nil
}

func (b *BatchProcessor) now() time.Time {
	if b.clock != nil {
		return b.clock.Now()
	}
	return time.Now()
}
