package core

// FilterPeriod returns the transactions whose date falls inside the closed
// interval [start, end]. A transaction dated exactly on either bound is
// included. An inverted range yields an empty result, which callers treat
// as "no data for period" rather than an error.
func FilterPeriod(ts []Transaction, start, end Date) []Transaction {
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MonthBounds returns the first and last calendar day of the month
// containing d.
func MonthBounds(d Date) (Date, Date) {
	first := NewDate(d.Year(), int(d.Month()), 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}
