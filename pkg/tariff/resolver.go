package tariff

import (
	"time"

	"github.com/touledger/touledger/pkg/types"
)

// tierPriority is the order base ranges are tested in; the first match wins.
var tierPriority = []types.Tier{types.TierOnPeak, types.TierOffPeak, types.TierSuperOffPeak}

// ResolveTier maps an hour of the day to its pricing tier.
//
// The day type selects the base range list, ranges are tested in on-peak,
// off-peak, super-off-peak order, and the first containing range wins. When
// the base match is off-peak on a weekday, the schedule's month-scoped
// override can still reclassify the hour. Hours no range covers fall back to
// off-peak, which keeps the resolver total over the 24-hour domain even with
// an incomplete schedule.
//
// The season is part of the contract for schedules that grow season-specific
// ranges; the current schedule shape keys ranges by day type only.
func (c *Classifier) ResolveTier(hour int, month time.Month, season types.Season, dayType types.DayType) types.Tier {
	day := c.schedule.Weekday
	if dayType == types.DayTypeWeekendHoliday {
		day = c.schedule.WeekendHoliday
	}

	tier := types.TierOffPeak
	matched := false
	for _, t := range tierPriority {
		for _, r := range day.Ranges(t) {
			if r.Contains(hour) {
				tier = t
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	// overrides only narrow a weekday off-peak result
	if tier != types.TierOffPeak || dayType != types.DayTypeWeekday {
		return tier
	}
	o := c.schedule.WeekdayOverride
	if o == nil || !o.ActiveIn(month) {
		return tier
	}
	for _, r := range o.Ranges {
		if r.Contains(hour) {
			return o.Tier
		}
	}
	return tier
}
