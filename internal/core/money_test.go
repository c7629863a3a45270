package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"-5.5", -550, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"+", 0, false},
		{" - ", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 4650, -12345} {
		b, err := json.Marshal(Money{Cents: cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var got Money
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if got.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, b, got.Cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{4650, "46.50"},
		{-200, "-2.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("String(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFromFloat(t *testing.T) {
	if got := FromFloat(12.345); got.Cents != 1235 {
		t.Fatalf("FromFloat(12.345) = %d, want 1235", got.Cents)
	}
	if got := FromFloat(-1.0); got.Cents != -100 {
		t.Fatalf("FromFloat(-1.0) = %d, want -100", got.Cents)
	}
}
