// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument reports an absent required input or an out-of-range setting.
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultThreshold is the usual number of distinct classmates a student must answer.
const DefaultThreshold = 3

// Post is a discussion question. Only ID, Author and Deleted affect participation.
type Post struct {
	ID        string
	Author    string
	Title     string
	Thread    string
	Deleted   bool
	CreatedAt time.Time
}

// Reply answers a post.
type Reply struct {
	ID        string
	PostID    string
	Author    string
	Content   string
	Deleted   bool
	CreatedAt time.Time
}

// GradingConfig holds the settings used for a participation analysis.
type GradingConfig struct {
	Threshold int
	Window    DateWindow
	DBPath    string
}

// ParticipationRecord is one student's verdict.
type ParticipationRecord struct {
	Student          string
	DistinctPeers    int
	MeetsRequirement bool
}

// NewParticipationRecord validates and builds a record.
func NewParticipationRecord(student string, distinctPeers int, meets bool) (ParticipationRecord, error) {
	if strings.TrimSpace(student) == "" {
		return ParticipationRecord{}, fmt.Errorf("%w: student username is empty", ErrInvalidArgument)
	}
	if distinctPeers < 0 {
		return ParticipationRecord{}, fmt.Errorf("%w: distinct peers answered is negative", ErrInvalidArgument)
	}
	return ParticipationRecord{
		Student:          student,
		DistinctPeers:    distinctPeers,
		MeetsRequirement: meets,
	}, nil
}

// Equal reports whether both records describe the same student. Counts are ignored.
func (r ParticipationRecord) Equal(other ParticipationRecord) bool {
	return r.Student == other.Student
}

func (r ParticipationRecord) String() string {
	status := "NEEDS MORE"
	if r.MeetsRequirement {
		status = "MEETS"
	}
	return fmt.Sprintf("%-20s | Answered: %2d distinct students | Status: %s", r.Student, r.DistinctPeers, status)
}

// DateWindow is an inclusive time range. A nil bound is unbounded on that side.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

// DayWindow expands calendar days to a window covering the whole of both days.
func DayWindow(start, end *time.Time) DateWindow {
	var w DateWindow
	if start != nil {
		s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		w.Start = &s
	}
	if end != nil {
		e := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
		w.End = &e
	}
	return w
}

// Contains reports whether t falls inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// IsZero reports whether the window is unbounded on both sides.
func (w DateWindow) IsZero() bool {
	return w.Start == nil && w.End == nil
}

func (w DateWindow) String() string {
	start, end := "any", "any"
	if w.Start != nil {
		start = w.Start.Format("2006-01-02")
	}
	if w.End != nil {
		end = w.End.Format("2006-01-02")
	}
	return start + ".." + end
}
