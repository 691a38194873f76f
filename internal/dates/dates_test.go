package dates

import "testing"

func TestPrevDay(t *testing.T) {
	cases := map[string]string{
		"2026-08-27": "2026-08-26",
		"2026-03-01": "2026-02-28",
		"2024-03-01": "2024-02-29",
		"2026-01-01": "2025-12-31",
		"not-a-day":  "",
	}
	for in, want := range cases {
		if got := PrevDay(in); got != want {
			t.Errorf("PrevDay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsYesterday(t *testing.T) {
	if !IsYesterday("2026-08-26", "2026-08-27") {
		t.Error("consecutive days not recognized")
	}
	if IsYesterday("2026-08-25", "2026-08-27") {
		t.Error("two-day gap recognized as yesterday")
	}
	if IsYesterday("", "2026-08-27") {
		t.Error("empty day recognized as yesterday")
	}
}

func TestWithinDays(t *testing.T) {
	today := "2026-08-27"
	cases := []struct {
		day  string
		n    int
		want bool
	}{
		{"2026-08-27", 7, true},
		{"2026-08-21", 7, true},  // inclusive lower bound
		{"2026-08-20", 7, false}, // one day past the window
		{"2026-08-28", 7, false}, // future days never count
		{"2026-07-29", 30, true},
		{"bad-input", 7, false},
	}
	for _, tc := range cases {
		if got := WithinDays(tc.day, today, tc.n); got != tc.want {
			t.Errorf("WithinDays(%q, %q, %d) = %v, want %v", tc.day, today, tc.n, got, tc.want)
		}
	}
}
