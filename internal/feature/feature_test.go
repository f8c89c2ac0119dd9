package feature

import (
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func simpleMatch(t *testing.T, id int64, date, home, away string, homeGoals, awayGoals int) Match {
	t.Helper()
	return Match{
		ID:        id,
		Date:      day(t, date),
		Season:    2023,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: intPtr(homeGoals),
		AwayGoals: intPtr(awayGoals),
	}
}

func wantFloat(t *testing.T, got *float64, want float64, label string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: expected %v, got nil", label, want)
	}
	if *got != want {
		t.Fatalf("%s: expected %v, got %v", label, want, *got)
	}
}

func wantNilFloat(t *testing.T, got *float64, label string) {
	t.Helper()
	if got != nil {
		t.Fatalf("%s: expected nil, got %v", label, *got)
	}
}
