package core

import "testing"

func TestFilterPeriodInclusive(t *testing.T) {
	start := NewDate(2024, 6, 1)
	end := NewDate(2024, 6, 30)
	ts := []Transaction{
		dated(KindDespesa, NewDate(2024, 5, 31), 1), // one day before start
		dated(KindDespesa, start, 2),
		dated(KindDespesa, NewDate(2024, 6, 15), 3),
		dated(KindDespesa, end, 4),
		dated(KindDespesa, NewDate(2024, 7, 1), 5),
	}

	got := FilterPeriod(ts, start, end)
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}
	if got[0].Amount.Cents != 2 || got[2].Amount.Cents != 4 {
		t.Fatalf("boundary transactions missing: %+v", got)
	}
}

func TestFilterPeriodInvertedRange(t *testing.T) {
	ts := []Transaction{dated(KindDespesa, NewDate(2024, 6, 15), 1)}
	got := FilterPeriod(ts, NewDate(2024, 6, 30), NewDate(2024, 6, 1))
	if len(got) != 0 {
		t.Fatalf("inverted range should yield empty set, got %v", got)
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		in          Date
		first, last Date
	}{
		{NewDate(2024, 2, 15), NewDate(2024, 2, 1), NewDate(2024, 2, 29)}, // leap year
		{NewDate(2023, 2, 1), NewDate(2023, 2, 1), NewDate(2023, 2, 28)},
		{NewDate(2024, 12, 31), NewDate(2024, 12, 1), NewDate(2024, 12, 31)},
	}
	for _, tc := range cases {
		first, last := MonthBounds(tc.in)
		if !first.Equal(tc.first) || !last.Equal(tc.last) {
			t.Fatalf("MonthBounds(%v) = %v..%v, want %v..%v", tc.in, first, last, tc.first, tc.last)
		}
	}
}
