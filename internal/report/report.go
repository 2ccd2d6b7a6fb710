// Package report prepares and renders participation reports.
package report

import (
	"context"
	"fmt"

	"github.com/verte-zerg/peercount/internal/model"
	"github.com/verte-zerg/peercount/internal/participation"
)

// Source supplies the current discussion board contents.
type Source interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListReplies(ctx context.Context) ([]model.Reply, error)
}

// Report contains precomputed data for the ranked listing.
type Report struct {
	Ranked     []model.ParticipationRecord
	Meeting    int
	NotMeeting int
	Threshold  int
	Window     model.DateWindow
	Posts      int
	Replies    int
}

// StudentDetail is the drill-down for one student.
type StudentDetail struct {
	Student    string
	Record     model.ParticipationRecord
	Found      bool
	Threshold  int
	Peers      []string
	Replies    []model.Reply
	PostTitles map[string]string
}

// Load reads a snapshot from src and refreshes svc with it.
func Load(ctx context.Context, src Source, svc *participation.Service) error {
	posts, err := src.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}
	replies, err := src.ListReplies(ctx)
	if err != nil {
		return fmt.Errorf("failed to load replies: %w", err)
	}
	if err := svc.Refresh(posts, replies); err != nil {
		return fmt.Errorf("failed to analyze participation: %w", err)
	}
	return nil
}

// BuildReport loads the board and summarizes it with the service settings.
func BuildReport(ctx context.Context, src Source, svc *participation.Service) (Report, error) {
	if err := Load(ctx, src, svc); err != nil {
		return Report{}, err
	}
	return Summarize(svc), nil
}

// Summarize builds a Report from the service's current snapshot.
func Summarize(svc *participation.Service) Report {
	posts, replies := svc.Snapshot()
	return Report{
		Ranked:     svc.RankedList(),
		Meeting:    svc.CountMeeting(),
		NotMeeting: svc.CountNotMeeting(),
		Threshold:  svc.RequiredThreshold(),
		Window:     svc.DateWindow(),
		Posts:      len(posts),
		Replies:    len(replies),
	}
}

// BuildStudentDetail collects the peers and replies of one student.
func BuildStudentDetail(svc *participation.Service, student string) (StudentDetail, error) {
	posts, replies := svc.Snapshot()
	authored, err := svc.AuthoredReplies(student, replies)
	if err != nil {
		return StudentDetail{}, err
	}
	titles := make(map[string]string, len(posts))
	for _, p := range posts {
		titles[p.ID] = p.Title
	}
	rec, found := svc.Summary()[student]
	return StudentDetail{
		Student:    student,
		Record:     rec,
		Found:      found,
		Threshold:  svc.RequiredThreshold(),
		Peers:      svc.PeersAnswered(student),
		Replies:    authored,
		PostTitles: titles,
	}, nil
}
