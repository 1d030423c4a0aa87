package types

import (
	"fmt"
	"time"
)

// HolidayDateFormat is the layout holiday dates use everywhere: in the
// schedule description, as membership keys, and in external schedule files.
const HolidayDateFormat = "2006-01-02"

// HourRange is a half-open [HourStart, HourEnd) range on a 24-hour clock.
type HourRange struct {
	HourStart int `json:"hourStart"`
	HourEnd   int `json:"hourEnd"`
}

// Contains checks if an hour falls within the range. HourEnd is exclusive.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.HourStart && hour < r.HourEnd
}

func (r HourRange) validate() error {
	if r.HourStart < 0 || r.HourEnd > 24 || r.HourStart >= r.HourEnd {
		return fmt.Errorf("invalid hour range [%d, %d)", r.HourStart, r.HourEnd)
	}
	return nil
}

// DaySchedule holds the base tier ranges for one day type.
type DaySchedule struct {
	OnPeak       []HourRange `json:"onPeak"`
	OffPeak      []HourRange `json:"offPeak"`
	SuperOffPeak []HourRange `json:"superOffPeak"`
}

// Ranges returns the base ranges for the given tier.
func (d DaySchedule) Ranges(tier Tier) []HourRange {
	switch tier {
	case TierOnPeak:
		return d.OnPeak
	case TierOffPeak:
		return d.OffPeak
	case TierSuperOffPeak:
		return d.SuperOffPeak
	}
	return nil
}

// MonthOverride reclassifies hours inside a matched off-peak base range.
// It only applies on weekdays, and only in the listed months.
type MonthOverride struct {
	Months []time.Month `json:"months"`
	Ranges []HourRange  `json:"ranges"`
	Tier   Tier         `json:"tier"`
}

// ActiveIn checks if the override applies in the given month.
func (o *MonthOverride) ActiveIn(month time.Month) bool {
	for _, m := range o.Months {
		if m == month {
			return true
		}
	}
	return false
}

// Schedule is the full tariff rule set: holiday dates, season month sets,
// per-day-type tier ranges with an optional weekday override, and the
// season/tier rate table. It is validated once at load time and shared
// read-only afterwards.
type Schedule struct {
	// Holidays are calendar dates in HolidayDateFormat.
	Holidays []string `json:"holidays"`

	// SeasonMonths assigns every calendar month to exactly one season.
	SeasonMonths map[Season][]time.Month `json:"seasonMonths"`

	Weekday         DaySchedule    `json:"weekday"`
	WeekendHoliday  DaySchedule    `json:"weekendHoliday"`
	WeekdayOverride *MonthOverride `json:"weekdayOverride,omitempty"`

	// Rates maps (season, tier) to $/kWh. A pair produced by classification
	// but absent here is a Missing-Rate configuration defect.
	Rates map[Season]map[Tier]float64 `json:"rates"`
}

// Validate checks the schedule invariants that are cheap to verify up front:
// full season coverage of the calendar and well-formed hour ranges. A
// schedule failing Validate must not be used; rate-table completeness is
// deliberately not checked here since missing rates only fail the files that
// hit them.
func (s *Schedule) Validate() error {
	seen := make(map[time.Month]Season, 12)
	for season, months := range s.SeasonMonths {
		for _, m := range months {
			if m < time.January || m > time.December {
				return fmt.Errorf("season %s contains invalid month %d", season, m)
			}
			if other, ok := seen[m]; ok {
				return fmt.Errorf("month %s assigned to both %s and %s", m, other, season)
			}
			seen[m] = season
		}
	}
	for m := time.January; m <= time.December; m++ {
		if _, ok := seen[m]; !ok {
			return fmt.Errorf("month %s not assigned to any season", m)
		}
	}

	for _, day := range []struct {
		name string
		ds   DaySchedule
	}{
		{"weekday", s.Weekday},
		{"weekend_holiday", s.WeekendHoliday},
	} {
		for _, tier := range []Tier{TierOnPeak, TierOffPeak, TierSuperOffPeak} {
			for _, r := range day.ds.Ranges(tier) {
				if err := r.validate(); err != nil {
					return fmt.Errorf("%s %s: %w", day.name, tier, err)
				}
			}
		}
	}

	if o := s.WeekdayOverride; o != nil {
		for _, m := range o.Months {
			if m < time.January || m > time.December {
				return fmt.Errorf("weekday override contains invalid month %d", m)
			}
		}
		for _, r := range o.Ranges {
			if err := r.validate(); err != nil {
				return fmt.Errorf("weekday override: %w", err)
			}
		}
	}

	for i, h := range s.Holidays {
		if _, err := time.Parse(HolidayDateFormat, h); err != nil {
			return fmt.Errorf("invalid holiday date %q at index %d: %w", h, i, err)
		}
	}

	return nil
}

// DefaultTOUDR returns the built-in SDG&E TOU-DR schedule: rates as of June
// 2025 with the published 2025 holiday list. Summer runs June through
// October.
func DefaultTOUDR() Schedule {
	return Schedule{
		Holidays: []string{
			"2025-01-01", // New Year's Day
			"2025-02-17", // Presidents' Day
			"2025-05-26", // Memorial Day
			"2025-07-04", // Independence Day
			"2025-09-01", // Labor Day
			"2025-11-11", // Veterans Day
			"2025-11-27", // Thanksgiving
			"2025-12-25", // Christmas
		},
		SeasonMonths: map[Season][]time.Month{
			SeasonSummer: {time.June, time.July, time.August, time.September, time.October},
			SeasonWinter: {time.November, time.December, time.January, time.February, time.March, time.April, time.May},
		},
		Weekday: DaySchedule{
			OnPeak:       []HourRange{{HourStart: 16, HourEnd: 21}},
			OffPeak:      []HourRange{{HourStart: 6, HourEnd: 16}, {HourStart: 21, HourEnd: 24}},
			SuperOffPeak: []HourRange{{HourStart: 0, HourEnd: 6}},
		},
		WeekendHoliday: DaySchedule{
			OnPeak:       []HourRange{{HourStart: 16, HourEnd: 21}},
			OffPeak:      []HourRange{{HourStart: 14, HourEnd: 16}, {HourStart: 21, HourEnd: 24}},
			SuperOffPeak: []HourRange{{HourStart: 0, HourEnd: 14}},
		},
		// 10am-2pm in March and April drops to super off-peak on weekdays
		WeekdayOverride: &MonthOverride{
			Months: []time.Month{time.March, time.April},
			Ranges: []HourRange{{HourStart: 10, HourEnd: 14}},
			Tier:   TierSuperOffPeak,
		},
		Rates: map[Season]map[Tier]float64{
			SeasonSummer: {
				TierOnPeak:       0.59908,
				TierOffPeak:      0.52754,
				TierSuperOffPeak: 0.45000,
			},
			SeasonWinter: {
				TierOnPeak:       0.58155,
				TierOffPeak:      0.51899,
				TierSuperOffPeak: 0.50084,
			},
		},
	}
}
