package domain

import (
	"testing"
	"time"
)

func TestTouchStrictlyIncreases(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 123456789, time.UTC)
	app := Application{}

	app.Touch(now)
	first := app.UpdatedAt
	if !first.Equal(now.Truncate(time.Microsecond)) {
		t.Fatalf("expected truncated now, got %s", first)
	}

	app.Touch(now)
	if !app.UpdatedAt.After(first) {
		t.Fatalf("expected strictly later timestamp with a frozen clock")
	}

	app.Touch(now.Add(-time.Hour))
	if !app.UpdatedAt.After(first) {
		t.Fatalf("clock going backwards must not rewind updatedAt")
	}
}

func TestStatusRank(t *testing.T) {
	if StatusApplied.Rank() != 0 || StatusRejected.Rank() != 4 {
		t.Fatalf("unexpected ranks")
	}
	if Status("hired").Valid() {
		t.Fatalf("unknown status reported valid")
	}
	list := Statuses()
	list[0] = "mutated"
	if Statuses()[0] != StatusApplied {
		t.Fatalf("Statuses must return a copy")
	}
}

func TestLastActivityFallsBackToAppliedDate(t *testing.T) {
	applied := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	app := Application{AppliedDate: applied}
	if !app.LastActivity().Equal(applied) {
		t.Fatalf("expected applied date fallback")
	}
	app.UpdatedAt = applied.Add(time.Hour)
	if !app.LastActivity().Equal(applied.Add(time.Hour)) {
		t.Fatalf("expected updatedAt")
	}
}
