package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/touledger/touledger/pkg/types"
)

func sampleResult() types.BatchResult {
	account := types.AccountInfo{
		Name:          "JANE EXAMPLE",
		Address:       "123 MAIN ST, SAN DIEGO CA",
		AccountNumber: "1234567890",
		MeterNumber:   "05512345",
	}
	return types.BatchResult{
		Intervals: []types.ClassifiedInterval{
			{
				UsageInterval: types.UsageInterval{
					Account:         account,
					Start:           time.Date(2025, time.July, 15, 14, 30, 0, 0, time.UTC),
					DurationMinutes: 15,
					ConsumptionKWH:  0.213,
					NetKWH:          0.213,
				},
				Season:        types.SeasonSummer,
				Tier:          types.TierOffPeak,
				DollarsPerKWH: 0.52754,
				CostDollars:   0.112366002,
			},
			{
				UsageInterval: types.UsageInterval{
					Account:         account,
					Start:           time.Date(2025, time.July, 15, 14, 45, 0, 0, time.UTC),
					DurationMinutes: 15,
					ConsumptionKWH:  0.1,
					GenerationKWH:   2.1,
					NetKWH:          -2,
				},
				Season:        types.SeasonSummer,
				Tier:          types.TierOffPeak,
				DollarsPerKWH: 0.52754,
				CostDollars:   -1.05508,
			},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"name", "address", "account_number", "meter_number",
		"datetime", "date", "start_time", "duration",
		"consumption", "generation", "net",
		"season", "time_period", "rate", "cost",
	}, rows[0])

	assert.Equal(t, []string{
		"JANE EXAMPLE", "123 MAIN ST, SAN DIEGO CA", "1234567890", "05512345",
		"2025-07-15 14:30", "2025-07-15", "14:30", "15",
		"0.213", "0", "0.213",
		"summer", "off_peak", "0.52754", "0.112366002",
	}, rows[1])

	// generation exceeds consumption, net and cost go negative
	assert.Equal(t, "-2", rows[2][10])
	assert.Equal(t, "-1.05508", rows[2][14])
}

func TestWriteEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, types.BatchResult{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	// header only
	assert.Len(t, rows, 1)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priced_usage.csv")
	require.NoError(t, WriteFile(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "JANE EXAMPLE")

	t.Run("replaces existing file", func(t *testing.T) {
		require.NoError(t, WriteFile(path, types.BatchResult{}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "JANE EXAMPLE")
	})
}
