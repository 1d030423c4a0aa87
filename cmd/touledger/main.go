package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/touledger/touledger/pkg/batch"
	"github.com/touledger/touledger/pkg/export"
	"github.com/touledger/touledger/pkg/log"
	"github.com/touledger/touledger/pkg/storage"
	"github.com/touledger/touledger/pkg/tariff"
	"github.com/touledger/touledger/pkg/types"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	// init packages
	src := tariff.Configured()
	st := storage.Configured()

	input := lflag.String("input", "./gbd_data", "Folder containing Green Button Data CSV files")
	output := lflag.String("output", "./priced_usage.csv", "Combined output CSV path")

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := st.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// A schedule that fails validation is fatal before any file is touched;
	// every file would fail against it anyway.
	schedule, err := src.Load()
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load schedule", "error", err)
		os.Exit(1)
	}
	classifier, err := tariff.New(schedule)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to build classifier", "error", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*input, "*.csv"))
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list input folder", "error", err)
		os.Exit(1)
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Ctx(ctx).InfoContext(ctx, "no csv files found", slog.String("input", *input))
		return
	}
	log.Ctx(ctx).InfoContext(ctx, "processing files", slog.Int("count", len(files)))

	result, err := batch.NewProcessor(classifier, st).Run(ctx, files)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "batch failed", "error", err)
		os.Exit(1)
	}

	if result.Total.Records == 0 {
		log.Ctx(ctx).WarnContext(ctx, "no data was successfully processed")
		return
	}

	if err := export.WriteFile(*output, result); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to write output", "error", err)
		os.Exit(1)
	}

	log.Ctx(ctx).InfoContext(
		ctx,
		"batch complete",
		slog.String("output", *output),
		slog.Int("files", len(result.Files)),
		slog.Int("failures", len(result.Failures)),
		slog.Int("records", result.Total.Records),
		slog.Float64("netKWH", result.Total.NetKWH),
		slog.Float64("costDollars", result.Total.CostDollars),
	)
	// tiers that appear in no file stay out of the summary
	for _, tier := range []types.Tier{types.TierOnPeak, types.TierOffPeak, types.TierSuperOffPeak} {
		tt, ok := result.Total.PerTier[tier]
		if !ok {
			continue
		}
		log.Ctx(ctx).InfoContext(
			ctx,
			"tier totals",
			slog.String("tier", string(tier)),
			slog.Float64("netKWH", tt.NetKWH),
			slog.Float64("costDollars", tt.CostDollars),
		)
	}
}
