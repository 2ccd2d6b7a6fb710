package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewParticipationRecordValidates(t *testing.T) {
	if _, err := NewParticipationRecord("  ", 1, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty student, got %v", err)
	}
	if _, err := NewParticipationRecord("bob", -1, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for negative count, got %v", err)
	}
	rec, err := NewParticipationRecord("bob", 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Student != "bob" || rec.DistinctPeers != 0 || rec.MeetsRequirement {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestParticipationRecordEqualIgnoresCounts(t *testing.T) {
	a := ParticipationRecord{Student: "bob", DistinctPeers: 1}
	b := ParticipationRecord{Student: "bob", DistinctPeers: 4, MeetsRequirement: true}
	if !a.Equal(b) {
		t.Fatalf("expected records for the same student to be equal")
	}
	if a.Equal(ParticipationRecord{Student: "Bob", DistinctPeers: 1}) {
		t.Fatalf("expected student identity to be case-sensitive")
	}
}

func TestParticipationRecordString(t *testing.T) {
	meets := ParticipationRecord{Student: "bob", DistinctPeers: 3, MeetsRequirement: true}.String()
	if !strings.HasPrefix(meets, "bob                  | Answered:  3") || !strings.HasSuffix(meets, "Status: MEETS") {
		t.Fatalf("unexpected string: %q", meets)
	}
	needs := ParticipationRecord{Student: "eve", DistinctPeers: 1}.String()
	if !strings.HasSuffix(needs, "Status: NEEDS MORE") {
		t.Fatalf("unexpected string: %q", needs)
	}
}

func TestDateWindowContainsIsInclusive(t *testing.T) {
	start := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)
	w := DateWindow{Start: &start, End: &end}
	if !w.Contains(start) || !w.Contains(end) {
		t.Fatalf("expected bounds to be included")
	}
	if w.Contains(start.Add(-time.Nanosecond)) || w.Contains(end.Add(time.Nanosecond)) {
		t.Fatalf("expected instants outside the bounds to be excluded")
	}
	if !(DateWindow{}).Contains(time.Time{}) {
		t.Fatalf("expected unbounded window to contain everything")
	}
}

func TestDayWindowCoversWholeDays(t *testing.T) {
	day := time.Date(2025, 11, 2, 15, 30, 0, 0, time.UTC)
	w := DayWindow(&day, &day)
	if !w.Contains(time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start of day to be included")
	}
	if !w.Contains(time.Date(2025, 11, 2, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("expected end of day to be included")
	}
	if w.Contains(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected next day to be excluded")
	}
	if got := w.String(); got != "2025-11-02..2025-11-02" {
		t.Fatalf("unexpected window string: %q", got)
	}
	if !DayWindow(nil, nil).IsZero() {
		t.Fatalf("expected nil days to give an unbounded window")
	}
}
