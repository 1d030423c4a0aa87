// Package export serializes batch results into the combined CSV layout.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/touledger/touledger/pkg/types"
)

var header = []string{
	"name", "address", "account_number", "meter_number",
	"datetime", "date", "start_time", "duration",
	"consumption", "generation", "net",
	"season", "time_period", "rate", "cost",
}

// Write emits one row per classified interval, in batch order.
func Write(w io.Writer, result types.BatchResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, iv := range result.Intervals {
		row := []string{
			iv.Account.Name,
			iv.Account.Address,
			iv.Account.AccountNumber,
			iv.Account.MeterNumber,
			iv.Start.Format("2006-01-02 15:04"),
			iv.Start.Format("2006-01-02"),
			iv.Start.Format("15:04"),
			strconv.Itoa(iv.DurationMinutes),
			formatKWH(iv.ConsumptionKWH),
			formatKWH(iv.GenerationKWH),
			formatKWH(iv.NetKWH),
			string(iv.Season),
			string(iv.Tier),
			strconv.FormatFloat(iv.DollarsPerKWH, 'f', -1, 64),
			strconv.FormatFloat(iv.CostDollars, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the combined CSV to path, replacing any existing file.
func WriteFile(path string, result types.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatKWH(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
