package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// The external schedule description uses the rate-sheet JSON layout:
//
//	{
//	  "holidays": ["2025-01-01", ...],
//	  "rates": {
//	    "summer": {"months": [6,7,8,9,10], "on_peak": 0.59908, ...},
//	    "winter": {...}
//	  },
//	  "time_periods": {
//	    "weekday": {
//	      "on_peak": [[16,21]],
//	      "off_peak": [[6,16],[21,24]],
//	      "super_off_peak": [[0,6]],
//	      "special_periods": {"months": [3,4], "super_off_peak_extra": [[10,14]]}
//	    },
//	    "weekend_holiday": {...}
//	  }
//	}
//
// Tier names are taken as-is; there is no normalization of the keys.
type scheduleFile struct {
	Holidays    []string                   `json:"holidays"`
	Rates       map[string]seasonRatesFile `json:"rates"`
	TimePeriods map[string]dayPeriodsFile  `json:"time_periods"`
}

type seasonRatesFile struct {
	Months       []time.Month `json:"months"`
	OnPeak       *float64     `json:"on_peak,omitempty"`
	OffPeak      *float64     `json:"off_peak,omitempty"`
	SuperOffPeak *float64     `json:"super_off_peak,omitempty"`
}

type dayPeriodsFile struct {
	OnPeak         [][2]int            `json:"on_peak,omitempty"`
	OffPeak        [][2]int            `json:"off_peak,omitempty"`
	SuperOffPeak   [][2]int            `json:"super_off_peak,omitempty"`
	SpecialPeriods *specialPeriodsFile `json:"special_periods,omitempty"`
}

type specialPeriodsFile struct {
	Months            []time.Month `json:"months"`
	SuperOffPeakExtra [][2]int     `json:"super_off_peak_extra"`
}

func hourRanges(pairs [][2]int) []HourRange {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]HourRange, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, HourRange{HourStart: p[0], HourEnd: p[1]})
	}
	return out
}

func hourPairs(ranges []HourRange) [][2]int {
	if len(ranges) == 0 {
		return nil
	}
	out := make([][2]int, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, [2]int{r.HourStart, r.HourEnd})
	}
	return out
}

func (d dayPeriodsFile) daySchedule() DaySchedule {
	return DaySchedule{
		OnPeak:       hourRanges(d.OnPeak),
		OffPeak:      hourRanges(d.OffPeak),
		SuperOffPeak: hourRanges(d.SuperOffPeak),
	}
}

// ParseSchedule decodes an external schedule description and validates it.
func ParseSchedule(data []byte) (Schedule, error) {
	var f scheduleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Schedule{}, fmt.Errorf("failed to decode schedule: %w", err)
	}

	s := Schedule{
		Holidays:     f.Holidays,
		SeasonMonths: make(map[Season][]time.Month, len(f.Rates)),
		Rates:        make(map[Season]map[Tier]float64, len(f.Rates)),
	}

	for name, r := range f.Rates {
		season := Season(name)
		switch season {
		case SeasonSummer, SeasonWinter:
		default:
			return Schedule{}, fmt.Errorf("unknown season in rates: %q", name)
		}
		s.SeasonMonths[season] = r.Months

		rates := make(map[Tier]float64, 3)
		if r.OnPeak != nil {
			rates[TierOnPeak] = *r.OnPeak
		}
		if r.OffPeak != nil {
			rates[TierOffPeak] = *r.OffPeak
		}
		if r.SuperOffPeak != nil {
			rates[TierSuperOffPeak] = *r.SuperOffPeak
		}
		s.Rates[season] = rates
	}

	for name, d := range f.TimePeriods {
		switch DayType(name) {
		case DayTypeWeekday:
			s.Weekday = d.daySchedule()
			if sp := d.SpecialPeriods; sp != nil {
				s.WeekdayOverride = &MonthOverride{
					Months: sp.Months,
					Ranges: hourRanges(sp.SuperOffPeakExtra),
					Tier:   TierSuperOffPeak,
				}
			}
		case DayTypeWeekendHoliday:
			// the weekend schedule has no overrides
			s.WeekendHoliday = d.daySchedule()
		default:
			return Schedule{}, fmt.Errorf("unknown day type in time_periods: %q", name)
		}
	}

	if err := s.Validate(); err != nil {
		return Schedule{}, fmt.Errorf("invalid schedule: %w", err)
	}
	return s, nil
}

// MarshalScheduleFile encodes a schedule in the external description layout,
// suitable for editing and loading back with ParseSchedule.
func MarshalScheduleFile(s Schedule) ([]byte, error) {
	f := scheduleFile{
		Holidays:    s.Holidays,
		Rates:       make(map[string]seasonRatesFile, len(s.SeasonMonths)),
		TimePeriods: make(map[string]dayPeriodsFile, 2),
	}

	for season, months := range s.SeasonMonths {
		r := seasonRatesFile{Months: months}
		if rates, ok := s.Rates[season]; ok {
			if v, ok := rates[TierOnPeak]; ok {
				r.OnPeak = &v
			}
			if v, ok := rates[TierOffPeak]; ok {
				r.OffPeak = &v
			}
			if v, ok := rates[TierSuperOffPeak]; ok {
				r.SuperOffPeak = &v
			}
		}
		f.Rates[string(season)] = r
	}

	weekday := dayPeriodsFile{
		OnPeak:       hourPairs(s.Weekday.OnPeak),
		OffPeak:      hourPairs(s.Weekday.OffPeak),
		SuperOffPeak: hourPairs(s.Weekday.SuperOffPeak),
	}
	if o := s.WeekdayOverride; o != nil {
		weekday.SpecialPeriods = &specialPeriodsFile{
			Months:            o.Months,
			SuperOffPeakExtra: hourPairs(o.Ranges),
		}
	}
	f.TimePeriods[string(DayTypeWeekday)] = weekday
	f.TimePeriods[string(DayTypeWeekendHoliday)] = dayPeriodsFile{
		OnPeak:       hourPairs(s.WeekendHoliday.OnPeak),
		OffPeak:      hourPairs(s.WeekendHoliday.OffPeak),
		SuperOffPeak: hourPairs(s.WeekendHoliday.SuperOffPeak),
	}

	return json.MarshalIndent(f, "", "  ")
}
