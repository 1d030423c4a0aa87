// Package batch runs the per-file classification pipeline and folds the
// results into per-file and batch-wide summaries.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/touledger/touledger/pkg/gbd"
	"github.com/touledger/touledger/pkg/log"
	"github.com/touledger/touledger/pkg/storage"
	"github.com/touledger/touledger/pkg/tariff"
	"github.com/touledger/touledger/pkg/types"
)

// Processor classifies batches of Green Button files against one schedule.
// The classifier is read-only, so a single Processor can serve any number of
// runs.
type Processor struct {
	classifier *tariff.Classifier
	storage    storage.Database
	now        func() time.Time
}

// NewProcessor returns a Processor recording completed runs to db.
func NewProcessor(classifier *tariff.Classifier, db storage.Database) *Processor {
	return &Processor{
		classifier: classifier,
		storage:    db,
		now:        time.Now,
	}
}

// Run processes the files in order. Per-file errors are isolated: a file
// that fails to parse or hits a missing rate is recorded as a failure and
// the batch continues. Cancellation is cooperative between files: the file
// in progress finishes and the rest are abandoned.
func (p *Processor) Run(ctx context.Context, files []string) (types.BatchResult, error) {
	agg := NewAggregator()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "batch canceled, abandoning remaining files", slog.Any("error", err))
			break
		}

		summary, intervals, err := p.processFile(ctx, file)
		if err != nil {
			log.Ctx(ctx).ErrorContext(
				ctx,
				"failed to process file",
				slog.String("file", file),
				slog.Any("error", err),
			)
			agg.AddFailure(file, err)
			continue
		}

		log.Ctx(ctx).InfoContext(
			ctx,
			"processed file",
			slog.String("file", summary.File),
			slog.String("account", summary.Account.Name),
			slog.Int("records", summary.Records),
			slog.Float64("netKWH", summary.NetKWH),
			slog.Float64("costDollars", summary.CostDollars),
		)
		agg.AddFile(summary, intervals)
	}

	result := agg.Result()
	if err := p.recordRun(ctx, result); err != nil {
		// recording is best effort, the batch result is already complete
		log.Ctx(ctx).ErrorContext(ctx, "failed to record run", slog.Any("error", err))
	}
	return result, nil
}

// processFile ingests and classifies one file.
func (p *Processor) processFile(ctx context.Context, file string) (types.FileSummary, []types.ClassifiedInterval, error) {
	account, usage, err := gbd.ParseFile(ctx, file)
	if err != nil {
		return types.FileSummary{}, nil, err
	}

	intervals, err := p.classifier.ClassifyAll(usage)
	if err != nil {
		return types.FileSummary{}, nil, err
	}

	return SummarizeFile(file, account, intervals), intervals, nil
}

func (p *Processor) recordRun(ctx context.Context, result types.BatchResult) error {
	return p.storage.InsertRun(ctx, types.RunRecord{
		Timestamp:      p.now(),
		FilesProcessed: len(result.Files),
		FilesFailed:    len(result.Failures),
		Records:        result.Total.Records,
		NetKWH:         result.Total.NetKWH,
		CostDollars:    result.Total.CostDollars,
		PerTier:        result.Total.PerTier,
	})
}
