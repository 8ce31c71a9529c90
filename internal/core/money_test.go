package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{" 12.34 ", 1234, false},
		{"", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"1 0", 0, true}, // embedded whitespace
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{12.34, 1234},
		{0.1, 10},
		{10.005, 1001},
		{-1.5, -150},
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.want {
			t.Fatalf("CentsFromFloat(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	if got := (Money{Cents: 1234}).FormatBRL(); got != "R$ 12,34" {
		t.Fatalf("got %q", got)
	}
	if got := (Money{Cents: -50}).FormatBRL(); got != "-R$ 0,50" {
		t.Fatalf("got %q", got)
	}
}

func TestReais(t *testing.T) {
	if got := (Money{Cents: 1234}).Reais(); got != 12.34 {
		t.Fatalf("got %v", got)
	}
}
