package participation

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/peercount/internal/model"
)

// Service answers participation queries over the last snapshot it was given.
// It caches one summary, dropped whenever the threshold or window changes.
//
// Service is not safe for concurrent use.
type Service struct {
	threshold int
	window    model.DateWindow

	posts   []model.Post
	replies []model.Reply

	summary map[string]model.ParticipationRecord
	fresh   bool
}

// NewService returns a Service with an empty snapshot and no date window.
func NewService(threshold int) (*Service, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	return &Service{
		threshold: threshold,
		posts:     []model.Post{},
		replies:   []model.Reply{},
	}, nil
}

// Refresh replaces the snapshot and recomputes the summary. On error the
// previous snapshot and summary are kept.
func (s *Service) Refresh(posts []model.Post, replies []model.Reply) error {
	if err := checkAnswerers(posts, replies); err != nil {
		return err
	}
	summary, err := s.compute(posts, replies)
	if err != nil {
		return err
	}
	s.posts = append([]model.Post{}, posts...)
	s.replies = append([]model.Reply{}, replies...)
	s.summary = summary
	s.fresh = true
	return nil
}

// Summary returns a copy of the per-student records, computing them if stale.
func (s *Service) Summary() map[string]model.ParticipationRecord {
	s.ensureFresh()
	out := make(map[string]model.ParticipationRecord, len(s.summary))
	for k, v := range s.summary {
		out[k] = v
	}
	return out
}

// RankedList returns the summary ordered for review, neediest first.
func (s *Service) RankedList() []model.ParticipationRecord {
	s.ensureFresh()
	return rankSummary(s.summary)
}

// CountMeeting returns how many summarized students meet the threshold.
func (s *Service) CountMeeting() int {
	s.ensureFresh()
	n := 0
	for _, rec := range s.summary {
		if rec.MeetsRequirement {
			n++
		}
	}
	return n
}

// CountNotMeeting returns how many summarized students fall short of the threshold.
func (s *Service) CountNotMeeting() int {
	s.ensureFresh()
	return len(s.summary) - s.CountMeeting()
}

// RequiredThreshold returns the current threshold.
func (s *Service) RequiredThreshold() int {
	return s.threshold
}

// SetRequiredThreshold changes the threshold. Values below 1 are rejected.
func (s *Service) SetRequiredThreshold(n int) error {
	if err := validateThreshold(n); err != nil {
		return err
	}
	s.threshold = n
	s.invalidate()
	return nil
}

// DateWindow returns the active window.
func (s *Service) DateWindow() model.DateWindow {
	return s.window
}

// SetDateWindow replaces the active window.
func (s *Service) SetDateWindow(w model.DateWindow) {
	s.window = w
	s.invalidate()
}

// ClearDateWindow removes both window bounds.
func (s *Service) ClearDateWindow() {
	s.SetDateWindow(model.DateWindow{})
}

// PeersAnswered returns the sorted peers a student answered inside the
// current window. The result is empty when the student answered nobody.
func (s *Service) PeersAnswered(student string) []string {
	graph, err := BuildAnswerGraph(s.posts, s.replies, s.window)
	if err != nil {
		// The held snapshot is never nil.
		return []string{}
	}
	return graph.Peers(student)
}

// AuthoredReplies filters replies to the non-deleted ones written by student
// inside the current window. The author match is exact, unlike the
// case-insensitive self-reply check. Input order is preserved.
func (s *Service) AuthoredReplies(student string, replies []model.Reply) ([]model.Reply, error) {
	if replies == nil {
		return nil, fmt.Errorf("%w: replies must not be nil", model.ErrInvalidArgument)
	}
	out := []model.Reply{}
	for _, r := range replies {
		if r.Deleted || r.Author != student {
			continue
		}
		if !s.window.Contains(r.CreatedAt) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Snapshot returns copies of the posts and replies last passed to Refresh.
func (s *Service) Snapshot() ([]model.Post, []model.Reply) {
	return append([]model.Post{}, s.posts...), append([]model.Reply{}, s.replies...)
}

// checkAnswerers rejects a snapshot in which a reply that counts under an open
// window has a blank author. Replies that can never count are ignored.
func checkAnswerers(posts []model.Post, replies []model.Reply) error {
	graph, err := BuildAnswerGraph(posts, replies, model.DateWindow{})
	if err != nil {
		return err
	}
	for student := range graph {
		if strings.TrimSpace(student) == "" {
			return fmt.Errorf("%w: a counted reply has no author", model.ErrInvalidArgument)
		}
	}
	return nil
}

func (s *Service) compute(posts []model.Post, replies []model.Reply) (map[string]model.ParticipationRecord, error) {
	graph, err := BuildAnswerGraph(posts, replies, s.window)
	if err != nil {
		return nil, err
	}
	return BuildSummary(graph, s.threshold)
}

func (s *Service) ensureFresh() {
	if s.fresh {
		return
	}
	summary, err := s.compute(s.posts, s.replies)
	if err != nil {
		// Refresh rejects every snapshot that could fail here.
		panic(fmt.Sprintf("participation: recompute held snapshot: %v", err))
	}
	s.summary = summary
	s.fresh = true
}

func (s *Service) invalidate() {
	s.summary = nil
	s.fresh = false
}
