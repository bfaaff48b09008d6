package util

import "testing"

func TestTitleLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Vol 2", "Vol 10", true},
		{"Vol 10", "Vol 2", false},
		{"abc", "abd", true},
		{"ABC", "abd", true}, // case-insensitive
		{"Book", "Bookkeeper", true},
		{"Chapter 2 part 3", "Chapter 2 part 10", true},
		{"same", "same", false},
	}
	for _, tc := range cases {
		if got := TitleLess(tc.a, tc.b); got != tc.want {
			t.Errorf("TitleLess(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
