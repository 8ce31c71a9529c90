package core

const (
	AlertToday    AlertBucket = "today"
	AlertUpcoming AlertBucket = "upcoming"
	AlertPast     AlertBucket = "past"
)

// AlertBucket classifies an alert relative to a reference date. Past alerts
// get no special treatment beyond the bucket name.
type AlertBucket string

// ClassifyAlert buckets a single alert against today using date-only
// comparison.
func ClassifyAlert(a Alert, today Date) AlertBucket {
	switch {
	case a.AlertDate.Equal(today):
		return AlertToday
	case a.AlertDate.After(today):
		return AlertUpcoming
	}
	return AlertPast
}

// DueToday returns the alerts that fire on the given date.
func DueToday(alerts []Alert, today Date) []Alert {
	var out []Alert
	for _, a := range alerts {
		if ClassifyAlert(a, today) == AlertToday {
			out = append(out, a)
		}
	}
	return out
}

// Upcoming returns the alerts dated strictly after the given date.
func Upcoming(alerts []Alert, today Date) []Alert {
	var out []Alert
	for _, a := range alerts {
		if ClassifyAlert(a, today) == AlertUpcoming {
			out = append(out, a)
		}
	}
	return out
}
