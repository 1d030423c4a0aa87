package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScheduleJSON = `{
  "holidays": ["2025-01-01", "2025-07-04"],
  "rates": {
    "summer": {
      "months": [6, 7, 8, 9, 10],
      "on_peak": 0.59908,
      "off_peak": 0.52754,
      "super_off_peak": 0.45
    },
    "winter": {
      "months": [1, 2, 3, 4, 5, 11, 12],
      "on_peak": 0.58155,
      "off_peak": 0.51899,
      "super_off_peak": 0.50084
    }
  },
  "time_periods": {
    "weekday": {
      "on_peak": [[16, 21]],
      "off_peak": [[6, 16], [21, 24]],
      "super_off_peak": [[0, 6]],
      "special_periods": {
        "months": [3, 4],
        "super_off_peak_extra": [[10, 14]]
      }
    },
    "weekend_holiday": {
      "on_peak": [[16, 21]],
      "off_peak": [[14, 16], [21, 24]],
      "super_off_peak": [[0, 14]]
    }
  }
}`

func TestParseSchedule(t *testing.T) {
	t.Run("full schedule", func(t *testing.T) {
		s, err := ParseSchedule([]byte(sampleScheduleJSON))
		require.NoError(t, err)

		assert.Equal(t, []string{"2025-01-01", "2025-07-04"}, s.Holidays)
		assert.Equal(t, 0.45, s.Rates[SeasonSummer][TierSuperOffPeak])
		assert.Equal(t, 0.58155, s.Rates[SeasonWinter][TierOnPeak])
		assert.ElementsMatch(t,
			[]time.Month{time.June, time.July, time.August, time.September, time.October},
			s.SeasonMonths[SeasonSummer])

		assert.Equal(t, []HourRange{{HourStart: 16, HourEnd: 21}}, s.Weekday.OnPeak)
		assert.Equal(t, []HourRange{{HourStart: 6, HourEnd: 16}, {HourStart: 21, HourEnd: 24}}, s.Weekday.OffPeak)
		assert.Equal(t, []HourRange{{HourStart: 0, HourEnd: 14}}, s.WeekendHoliday.SuperOffPeak)

		require.NotNil(t, s.WeekdayOverride)
		assert.Equal(t, []time.Month{time.March, time.April}, s.WeekdayOverride.Months)
		assert.Equal(t, []HourRange{{HourStart: 10, HourEnd: 14}}, s.WeekdayOverride.Ranges)
		assert.Equal(t, TierSuperOffPeak, s.WeekdayOverride.Tier)
	})

	t.Run("missing tier price leaves rate absent", func(t *testing.T) {
		s, err := ParseSchedule([]byte(`{
			"rates": {
				"summer": {"months": [6,7,8,9,10], "on_peak": 0.5},
				"winter": {"months": [1,2,3,4,5,11,12], "on_peak": 0.4, "off_peak": 0.3, "super_off_peak": 0.2}
			},
			"time_periods": {
				"weekday": {"on_peak": [[16,21]]},
				"weekend_holiday": {"on_peak": [[16,21]]}
			}
		}`))
		require.NoError(t, err)

		_, ok := s.Rates[SeasonSummer][TierOffPeak]
		assert.False(t, ok)
		_, ok = s.Rates[SeasonSummer][TierOnPeak]
		assert.True(t, ok)
	})

	t.Run("unknown season", func(t *testing.T) {
		_, err := ParseSchedule([]byte(`{"rates": {"monsoon": {"months": [1]}}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown season")
	})

	t.Run("unknown day type", func(t *testing.T) {
		_, err := ParseSchedule([]byte(`{
			"rates": {
				"summer": {"months": [6,7,8,9,10]},
				"winter": {"months": [1,2,3,4,5,11,12]}
			},
			"time_periods": {"schoolday": {}}
		}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown day type")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseSchedule([]byte(`{`))
		assert.Error(t, err)
	})

	t.Run("validation runs on parse", func(t *testing.T) {
		// winter is missing December
		_, err := ParseSchedule([]byte(`{
			"rates": {
				"summer": {"months": [6,7,8,9,10]},
				"winter": {"months": [1,2,3,4,5,11]}
			},
			"time_periods": {"weekday": {}, "weekend_holiday": {}}
		}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid schedule")
	})
}

func TestMarshalScheduleFileRoundTrip(t *testing.T) {
	orig := DefaultTOUDR()

	data, err := MarshalScheduleFile(orig)
	require.NoError(t, err)

	parsed, err := ParseSchedule(data)
	require.NoError(t, err)

	assert.Equal(t, orig.Holidays, parsed.Holidays)
	assert.Equal(t, orig.Rates, parsed.Rates)
	assert.Equal(t, orig.SeasonMonths, parsed.SeasonMonths)
	assert.Equal(t, orig.Weekday, parsed.Weekday)
	assert.Equal(t, orig.WeekendHoliday, parsed.WeekendHoliday)
	assert.Equal(t, orig.WeekdayOverride, parsed.WeekdayOverride)
}
