// Package gbd parses Green Button Data CSV exports: a block of labeled
// account metadata rows followed by a tabular interval-usage section.
package gbd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/touledger/touledger/pkg/log"
	"github.com/touledger/touledger/pkg/types"
)

// ErrMalformedFile is returned when a file is missing the tabular section or
// the required metadata fields. The file is skipped; the batch continues.
var ErrMalformedFile = errors.New("malformed gbd file")

// Metadata row positions at the top of the export. The rows between account
// number and meter number hold service details we don't need.
const (
	metaRowName          = 0
	metaRowAddress       = 1
	metaRowAccountNumber = 2
	metaRowMeterNumber   = 6
)

var (
	dateLayouts = []string{"1/2/2006", "2006-01-02"}
	timeLayouts = []string{"3:04 PM", "15:04", "3:04PM"}
)

// ParseFile reads a Green Button export from disk.
func ParseFile(ctx context.Context, path string) (types.AccountInfo, []types.UsageInterval, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.AccountInfo{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// Parse reads a Green Button export. It locates the interval table by its
// header row ("Meter Number,Date,Start Time,..."), takes the account metadata
// from the fixed rows above it, and returns one UsageInterval per table row
// with the account attached.
func Parse(ctx context.Context, r io.Reader) (types.AccountInfo, []types.UsageInterval, error) {
	reader := csv.NewReader(r)
	// the metadata block and the table have different widths
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.AccountInfo{}, nil, fmt.Errorf("%w: csv read: %v", ErrMalformedFile, err)
		}
		rows = append(rows, record)
	}

	headerRow := -1
	for i, row := range rows {
		if len(row) >= 3 && row[0] == "Meter Number" && row[1] == "Date" && row[2] == "Start Time" {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return types.AccountInfo{}, nil, fmt.Errorf("%w: no interval table header found", ErrMalformedFile)
	}

	account, err := parseAccountInfo(rows[:headerRow])
	if err != nil {
		return types.AccountInfo{}, nil, err
	}

	colMap := make(map[string]int, len(rows[headerRow]))
	for i, col := range rows[headerRow] {
		colMap[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, required := range []string{"date", "start time", "duration", "consumption", "generation", "net"} {
		if _, ok := colMap[required]; !ok {
			return types.AccountInfo{}, nil, fmt.Errorf("%w: missing column %q", ErrMalformedFile, required)
		}
	}

	var intervals []types.UsageInterval
	for i, row := range rows[headerRow+1:] {
		if emptyRow(row) {
			continue
		}
		iv, err := parseIntervalRow(row, colMap, account)
		if err != nil {
			return types.AccountInfo{}, nil, fmt.Errorf("%w: row %d: %v", ErrMalformedFile, headerRow+2+i, err)
		}
		intervals = append(intervals, iv)
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"parsed gbd file",
		slog.String("accountNumber", account.AccountNumber),
		slog.Int("intervals", len(intervals)),
	)

	return account, intervals, nil
}

// parseAccountInfo pulls the labeled metadata rows from above the table
// header. Each row is "label,value".
func parseAccountInfo(rows [][]string) (types.AccountInfo, error) {
	field := func(row int) (string, error) {
		if row >= len(rows) || len(rows[row]) < 2 {
			return "", fmt.Errorf("%w: missing metadata row %d", ErrMalformedFile, row)
		}
		return strings.TrimSpace(rows[row][1]), nil
	}

	var account types.AccountInfo
	var err error
	if account.Name, err = field(metaRowName); err != nil {
		return types.AccountInfo{}, err
	}
	if account.Address, err = field(metaRowAddress); err != nil {
		return types.AccountInfo{}, err
	}
	if account.AccountNumber, err = field(metaRowAccountNumber); err != nil {
		return types.AccountInfo{}, err
	}
	if account.MeterNumber, err = field(metaRowMeterNumber); err != nil {
		return types.AccountInfo{}, err
	}
	return account, nil
}

func parseIntervalRow(row []string, colMap map[string]int, account types.AccountInfo) (types.UsageInterval, error) {
	cell := func(name string) (string, error) {
		idx := colMap[name]
		if idx >= len(row) {
			return "", fmt.Errorf("missing %s column value", name)
		}
		return strings.TrimSpace(row[idx]), nil
	}
	number := func(name string) (float64, error) {
		s, err := cell(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q", name, s)
		}
		return v, nil
	}

	dateStr, err := cell("date")
	if err != nil {
		return types.UsageInterval{}, err
	}
	date, err := parseWithLayouts(dateStr, dateLayouts)
	if err != nil {
		return types.UsageInterval{}, fmt.Errorf("invalid date %q", dateStr)
	}

	timeStr, err := cell("start time")
	if err != nil {
		return types.UsageInterval{}, err
	}
	start, err := parseWithLayouts(timeStr, timeLayouts)
	if err != nil {
		return types.UsageInterval{}, fmt.Errorf("invalid start time %q", timeStr)
	}

	durStr, err := cell("duration")
	if err != nil {
		return types.UsageInterval{}, err
	}
	duration, err := strconv.Atoi(durStr)
	if err != nil {
		return types.UsageInterval{}, fmt.Errorf("invalid duration %q", durStr)
	}

	consumption, err := number("consumption")
	if err != nil {
		return types.UsageInterval{}, err
	}
	generation, err := number("generation")
	if err != nil {
		return types.UsageInterval{}, err
	}
	net, err := number("net")
	if err != nil {
		return types.UsageInterval{}, err
	}

	// Timestamps are already in the utility's local civil time; we carry them
	// in UTC as a plain civil clock with no zone conversion.
	return types.UsageInterval{
		Account: account,
		Start: time.Date(
			date.Year(), date.Month(), date.Day(),
			start.Hour(), start.Minute(), 0, 0, time.UTC,
		),
		DurationMinutes: duration,
		ConsumptionKWH:  consumption,
		GenerationKWH:   generation,
		NetKWH:          net,
	}, nil
}

func parseWithLayouts(s string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
