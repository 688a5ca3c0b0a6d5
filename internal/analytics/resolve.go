package analytics

import "time"

// Resolve maps a selector to a concrete range anchored at referenceNow's
// calendar day. It never fails: unknown keywords and custom selectors without
// a start resolve as DefaultPreset.
func Resolve(sel RangeSelector, referenceNow time.Time) DateRange {
	if sel.custom && sel.start != nil {
		end := *sel.start
		if sel.end != nil {
			end = *sel.end
		}
		return NewDateRange(*sel.start, end)
	}

	day := truncateDay(referenceNow)
	switch sel.preset {
	case PresetToday:
		return DateRange{Start: day, End: day}
	case PresetYesterday:
		y := day.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}
	case PresetThisWeek:
		// weeks start on Sunday
		return DateRange{Start: day.AddDate(0, 0, -int(day.Weekday())), End: day}
	case PresetThisMonth:
		return DateRange{Start: time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC), End: day}
	case PresetLast3Months:
		// AddDate normalises overflow: 2025-05-31 minus three months is 2025-03-03.
		return DateRange{Start: day.AddDate(0, -3, 0), End: day}
	case PresetThisYear:
		return DateRange{Start: time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: day}
	default:
		return DateRange{Start: day.AddDate(0, 0, -6), End: day}
	}
}
