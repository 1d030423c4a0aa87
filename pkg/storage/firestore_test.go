package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touledger/touledger/pkg/types"
)

func TestFirestoreProvider(t *testing.T) {
	// Check if emulator is running or configured
	// We assume it is running on localhost:8087 as per task
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")

	// Use a test project ID
	projectID := "test-project-id"

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID: projectID,
		database:  randDB,
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	now := time.Now().Truncate(time.Second).UTC() // doc IDs are RFC3339, second precision

	t.Run("InsertRun", func(t *testing.T) {
		run := types.RunRecord{
			Timestamp:      now,
			FilesProcessed: 3,
			FilesFailed:    1,
			Records:        2976,
			NetKWH:         412.5,
			CostDollars:    215.88,
			PerTier: map[types.Tier]types.TierTotal{
				types.TierOffPeak: {NetKWH: 300, CostDollars: 158.26},
				types.TierOnPeak:  {NetKWH: 112.5, CostDollars: 57.62},
			},
		}
		require.NoError(t, f.InsertRun(ctx, run))

		t.Run("MissingTimestamp", func(t *testing.T) {
			err := f.InsertRun(ctx, types.RunRecord{})
			assert.ErrorContains(t, err, "missing timestamp")
		})
	})

	t.Run("GetRunHistory", func(t *testing.T) {
		older := types.RunRecord{Timestamp: now.Add(-2 * time.Hour), FilesProcessed: 1, Records: 96}
		require.NoError(t, f.InsertRun(ctx, older))

		runs, err := f.GetRunHistory(ctx, now.Add(-1*time.Minute), now.Add(1*time.Minute))
		require.NoError(t, err)

		foundRecent := false
		for _, r := range runs {
			// the older run is outside the window
			assert.False(t, r.Timestamp.Equal(older.Timestamp), "run outside range should not be returned")
			if r.Timestamp.Equal(now) {
				foundRecent = true
				assert.Equal(t, 3, r.FilesProcessed)
				assert.Equal(t, 2976, r.Records)
				assert.Equal(t, 300.0, r.PerTier[types.TierOffPeak].NetKWH)
			}
		}
		assert.True(t, foundRecent, "did not find inserted run in history")

		t.Run("InsertOverwrite", func(t *testing.T) {
			// same timestamp replaces the document
			updated := types.RunRecord{Timestamp: now, FilesProcessed: 5, Records: 4800}
			require.NoError(t, f.InsertRun(ctx, updated))

			runs, err := f.GetRunHistory(ctx, now.Add(-1*time.Minute), now.Add(1*time.Minute))
			require.NoError(t, err)

			for _, r := range runs {
				if r.Timestamp.Equal(now) {
					assert.Equal(t, 5, r.FilesProcessed, "expected the overwritten run")
				}
			}
		})

		t.Run("EmptyRange", func(t *testing.T) {
			runs, err := f.GetRunHistory(ctx, now.Add(24*time.Hour), now.Add(25*time.Hour))
			require.NoError(t, err)
			assert.Empty(t, runs)
		})
	})

	t.Run("GetLatestRunTime", func(t *testing.T) {
		future := now.Add(24 * time.Hour)
		require.NoError(t, f.InsertRun(ctx, types.RunRecord{Timestamp: future, FilesProcessed: 1}))

		latest, err := f.GetLatestRunTime(ctx)
		require.NoError(t, err)
		assert.Equal(t, future, latest, "latest time should match the future timestamp we just inserted")
	})
}
