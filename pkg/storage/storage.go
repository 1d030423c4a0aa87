// Package storage persists batch run history. The default provider discards
// everything so the CLI works with no backing store configured.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/touledger/touledger/pkg/types"
)

// Database defines the interface for persisting run history.
type Database interface {
	// InsertRun appends the summary of a completed batch run.
	InsertRun(ctx context.Context, run types.RunRecord) error

	// GetRunHistory retrieves run records within the time range.
	GetRunHistory(ctx context.Context, start, end time.Time) ([]types.RunRecord, error)

	// GetLatestRunTime returns the timestamp of the most recent run, or the
	// zero time if none exist.
	GetLatestRunTime(ctx context.Context) (time.Time, error)

	// Lifecycle
	Close() error
}

// Configured sets up the storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "none", "Storage provider for run history (available: none, firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "none":
			p.Database = noneProvider{}
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
			p.Database = fs
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}

// noneProvider is the default no-op Database.
type noneProvider struct{}

func (noneProvider) InsertRun(context.Context, types.RunRecord) error { return nil }

func (noneProvider) GetRunHistory(context.Context, time.Time, time.Time) ([]types.RunRecord, error) {
	return nil, nil
}

func (noneProvider) GetLatestRunTime(context.Context) (time.Time, error) {
	return time.Time{}, nil
}

func (noneProvider) Close() error { return nil }
