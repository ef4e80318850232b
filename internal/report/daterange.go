package report

import "time"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ResolveDateRange maps a duration key onto concrete calendar-day boundaries
// in the server's local time. Unrecognized keys, and a custom key missing
// either explicit bound, fall back to the last 30 days rather than erroring.
func ResolveDateRange(durationKey string, explicitStart, explicitEnd *time.Time, now time.Time) DateRange {
	switch durationKey {
	case DurationToday:
		return DateRange{Start: startOfDay(now), End: endOfDay(now), Label: DurationToday}

	case DurationYesterday:
		y := now.AddDate(0, 0, -1)
		return DateRange{Start: startOfDay(y), End: endOfDay(y), Label: DurationYesterday}

	case DurationLast7Days:
		return DateRange{Start: startOfDay(now.AddDate(0, 0, -7)), End: endOfDay(now), Label: DurationLast7Days}

	case DurationLast90Days:
		return DateRange{Start: startOfDay(now.AddDate(0, 0, -90)), End: endOfDay(now), Label: DurationLast90Days}

	case DurationThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return DateRange{Start: first, End: last, Label: DurationThisMonth}

	case DurationLastMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		first := firstOfThis.AddDate(0, -1, 0)
		last := firstOfThis.Add(-time.Nanosecond)
		return DateRange{Start: first, End: last, Label: DurationLastMonth}

	case DurationThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first, End: endOfDay(last), Label: DurationThisYear}

	case DurationLastYear:
		first := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first, End: endOfDay(last), Label: DurationLastYear}

	case DurationCustom:
		if explicitStart != nil && explicitEnd != nil {
			return DateRange{
				Start: startOfDay(*explicitStart),
				End:   endOfDay(*explicitEnd),
				Label: DurationCustom,
			}
		}
		// documented fallback, not an error
		return last30Days(now)

	case DurationLast30Days:
		return last30Days(now)
	}

	return last30Days(now)
}

func last30Days(now time.Time) DateRange {
	return DateRange{
		Start: startOfDay(now.AddDate(0, 0, -30)),
		End:   endOfDay(now),
		Label: DurationLast30Days,
	}
}
