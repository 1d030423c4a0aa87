package types

import (
	"time"
)

// Season identifies which seasonal rate table applies to a date.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// Tier is a pricing level within a season.
type Tier string

const (
	TierOnPeak       Tier = "on_peak"
	TierOffPeak      Tier = "off_peak"
	TierSuperOffPeak Tier = "super_off_peak"
)

// DayType selects which daily schedule applies to a date. A holiday follows
// the weekend schedule even when it falls on a weekday.
type DayType string

const (
	DayTypeWeekday        DayType = "weekday"
	DayTypeWeekendHoliday DayType = "weekend_holiday"
)

// AccountInfo is the account metadata extracted from the top of a Green
// Button Data export. It is read once per file and attached to every interval
// from that file.
type AccountInfo struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	AccountNumber string `json:"accountNumber"`
	MeterNumber   string `json:"meterNumber"`
}

// UsageInterval is a single metering interval from an ingested file. It is
// created during ingestion and never mutated afterward.
type UsageInterval struct {
	Account AccountInfo `json:"account"`

	// Start is the interval's start in the utility's local civil time.
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`

	// ConsumptionKWH and GenerationKWH are both >= 0; NetKWH is consumption
	// minus generation and goes negative when the meter exported more than it
	// drew.
	ConsumptionKWH float64 `json:"consumptionKWH"`
	GenerationKWH  float64 `json:"generationKWH"`
	NetKWH         float64 `json:"netKWH"`
}

// ClassifiedInterval is a UsageInterval after tariff classification and
// pricing.
type ClassifiedInterval struct {
	UsageInterval

	Season    Season `json:"season"`
	IsWeekend bool   `json:"isWeekend"`
	IsHoliday bool   `json:"isHoliday"`
	Tier      Tier   `json:"tier"`

	// DollarsPerKWH is the unit rate looked up for (Season, Tier).
	DollarsPerKWH float64 `json:"dollarsPerKWH"`
	// CostDollars is NetKWH * DollarsPerKWH; negative net yields a credit.
	CostDollars float64 `json:"costDollars"`
}

// TierTotal is the net usage and cost attributed to one tier.
type TierTotal struct {
	NetKWH      float64 `json:"netKWH"`
	CostDollars float64 `json:"costDollars"`
}

// FileSummary totals one ingested file's classified intervals.
type FileSummary struct {
	File    string      `json:"file"`
	Account AccountInfo `json:"account"`

	Records     int                `json:"records"`
	NetKWH      float64            `json:"netKWH"`
	CostDollars float64            `json:"costDollars"`
	PerTier     map[Tier]TierTotal `json:"perTier"`
}

// FileFailure records a file that could not be processed. The batch continues
// past it.
type FileFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// BatchTotal is the cross-file rollup. Tiers that appear in no file are
// absent from PerTier.
type BatchTotal struct {
	Records     int                `json:"records"`
	NetKWH      float64            `json:"netKWH"`
	CostDollars float64            `json:"costDollars"`
	PerTier     map[Tier]TierTotal `json:"perTier"`
}

// BatchResult is everything produced by one batch run. Intervals are ordered
// by file processing order and then by interval order within each file.
type BatchResult struct {
	Intervals []ClassifiedInterval `json:"intervals"`
	Files     []FileSummary        `json:"files"`
	Failures  []FileFailure        `json:"failures"`
	Total     BatchTotal           `json:"total"`
}

// RunRecord is the persisted summary of one completed batch run.
type RunRecord struct {
	Timestamp time.Time `json:"timestamp"`

	FilesProcessed int `json:"filesProcessed"`
	FilesFailed    int `json:"filesFailed"`

	Records     int                `json:"records"`
	NetKWH      float64            `json:"netKWH"`
	CostDollars float64            `json:"costDollars"`
	PerTier     map[Tier]TierTotal `json:"perTier"`
}
