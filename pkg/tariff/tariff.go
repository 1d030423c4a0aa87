// Package tariff classifies metering intervals under a time-of-use schedule:
// it maps each interval's date and hour to a season, day type, and pricing
// tier, then prices the interval's net usage from the schedule's rate table.
package tariff

import (
	"errors"
	"fmt"
	"time"

	"github.com/touledger/touledger/pkg/types"
)

// ErrMissingRate is returned when classification produced a (season, tier)
// pair that has no entry in the rate table. This is a schedule/rate-table
// mismatch: the file being processed must be abandoned, but the batch
// continues.
var ErrMissingRate = errors.New("missing rate")

// Classifier applies one validated schedule to intervals. It is immutable
// after New and safe for concurrent use.
type Classifier struct {
	schedule types.Schedule

	holidays      map[string]struct{}
	seasonByMonth [13]types.Season
}

// New builds a Classifier from the schedule. It validates the schedule first;
// a validation error here is fatal to the run since every file would fail the
// same way.
func New(schedule types.Schedule) (*Classifier, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	c := &Classifier{
		schedule: schedule,
		holidays: make(map[string]struct{}, len(schedule.Holidays)),
	}
	for _, h := range schedule.Holidays {
		c.holidays[h] = struct{}{}
	}
	for season, months := range schedule.SeasonMonths {
		for _, m := range months {
			c.seasonByMonth[m] = season
		}
	}
	return c, nil
}

// Season returns the season the date's month belongs to.
func (c *Classifier) Season(t time.Time) types.Season {
	return c.seasonByMonth[t.Month()]
}

// IsHoliday checks the date against the configured holiday set. Time of day
// is ignored.
func (c *Classifier) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[t.Format(types.HolidayDateFormat)]
	return ok
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func (c *Classifier) IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayType returns which daily schedule applies. A holiday forces the weekend
// schedule even on a weekday.
func (c *Classifier) DayType(t time.Time) types.DayType {
	if c.IsWeekend(t) || c.IsHoliday(t) {
		return types.DayTypeWeekendHoliday
	}
	return types.DayTypeWeekday
}

// Rate looks up the $/kWh price for the pair. With a well-formed schedule
// this never fails for tiers the resolver produces, so an ErrMissingRate
// indicates a configuration defect.
func (c *Classifier) Rate(season types.Season, tier types.Tier) (float64, error) {
	if rate, ok := c.schedule.Rates[season][tier]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("%w for season=%s tier=%s", ErrMissingRate, season, tier)
}

// Classify produces the priced ClassifiedInterval for one UsageInterval.
// Intervals classify independently so callers may process them in any order,
// but output order is expected to match input order.
func (c *Classifier) Classify(iv types.UsageInterval) (types.ClassifiedInterval, error) {
	season := c.Season(iv.Start)
	dayType := c.DayType(iv.Start)
	tier := c.ResolveTier(iv.Start.Hour(), iv.Start.Month(), season, dayType)

	rate, err := c.Rate(season, tier)
	if err != nil {
		return types.ClassifiedInterval{}, err
	}

	return types.ClassifiedInterval{
		UsageInterval: iv,
		Season:        season,
		IsWeekend:     c.IsWeekend(iv.Start),
		IsHoliday:     c.IsHoliday(iv.Start),
		Tier:          tier,
		DollarsPerKWH: rate,
		CostDollars:   iv.NetKWH * rate,
	}, nil
}

// ClassifyAll classifies a file's intervals in order. The first missing rate
// aborts the whole file since a rate-table gap would repeat for every
// interval in the same period.
func (c *Classifier) ClassifyAll(intervals []types.UsageInterval) ([]types.ClassifiedInterval, error) {
	out := make([]types.ClassifiedInterval, 0, len(intervals))
	for i, iv := range intervals {
		ci, err := c.Classify(iv)
		if err != nil {
			return nil, fmt.Errorf("interval %d (%s): %w", i, iv.Start.Format(time.RFC3339), err)
		}
		out = append(out, ci)
	}
	return out, nil
}
