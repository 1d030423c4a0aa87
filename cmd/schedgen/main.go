// schedgen writes the built-in TOU-DR schedule out as a JSON template so it
// can be edited and loaded back with -schedule.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/touledger/touledger/pkg/log"
	"github.com/touledger/touledger/pkg/types"
)

func main() {
	out := lflag.String("out", "sdge_rates.json", "Path to write the schedule template to (- for stdout)")
	lflag.Configure()

	ctx := context.Background()

	data, err := types.MarshalScheduleFile(types.DefaultTOUDR())
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to marshal schedule", "error", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if *out == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to write schedule", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to write schedule", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "wrote schedule template", slog.String("path", *out))
}
