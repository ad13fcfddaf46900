package extract

import "testing"

func TestPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"Call us at (206) 555-0134 today", "(206) 555-0134", true},
		{"206-555-0134", "206-555-0134", true},
		{"206.555.0134", "206.555.0134", true},
		{"2065550134", "2065550134", true},
		{"ext. 12345", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Phone(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Phone(%q) = (%q, %v); want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"4.5 stars", 4.5, true},
		{"Rated 5 star", 5, true},
		{"3 Stars (200)", 3, true},
		{"9.5 stars", 0, false},
		{"no rating here", 0, false},
	}

	for _, tt := range tests {
		got, ok := Rating(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Rating(%q) = (%v, %v); want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReviewCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"1,204 reviews", 1204, true},
		{"87 Reviews", 87, true},
		{"1 review", 1, true},
		{"great service", 0, false},
		// Absent must stay absent, not zero.
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ReviewCount(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ReviewCount(%q) = (%d, %v); want (%d, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Joe's   Diner \n ", "Joe's Diner"},
		{"one\ttwo", "one two"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.raw); got != tt.want {
			t.Errorf("CleanText(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}
