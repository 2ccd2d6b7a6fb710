// Package participation computes peer-answer statistics for discussion boards.
package participation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/peercount/internal/model"
)

// AnswerGraph maps an answerer to the set of distinct askers they replied to.
// A key is only present when its set is non-empty.
type AnswerGraph map[string]map[string]struct{}

// Peers returns a sorted copy of the askers a student answered.
func (g AnswerGraph) Peers(student string) []string {
	set := g[student]
	out := make([]string, 0, len(set))
	for peer := range set {
		out = append(out, peer)
	}
	sort.Strings(out)
	return out
}

// BuildAnswerGraph folds posts and replies into an answer graph. Deleted posts and
// replies, replies outside the window and self-replies are not counted.
func BuildAnswerGraph(posts []model.Post, replies []model.Reply, window model.DateWindow) (AnswerGraph, error) {
	if posts == nil {
		return nil, fmt.Errorf("%w: posts must not be nil", model.ErrInvalidArgument)
	}
	if replies == nil {
		return nil, fmt.Errorf("%w: replies must not be nil", model.ErrInvalidArgument)
	}

	askers := make(map[string]string, len(posts))
	for _, p := range posts {
		if p.Deleted {
			continue
		}
		askers[p.ID] = p.Author
	}

	graph := AnswerGraph{}
	for _, r := range replies {
		if r.Deleted {
			continue
		}
		if !window.Contains(r.CreatedAt) {
			continue
		}
		asker, ok := askers[r.PostID]
		if !ok {
			continue
		}
		// Self-replies never count, whatever the casing.
		if strings.EqualFold(r.Author, asker) {
			continue
		}
		peers, ok := graph[r.Author]
		if !ok {
			peers = map[string]struct{}{}
			graph[r.Author] = peers
		}
		peers[asker] = struct{}{}
	}
	return graph, nil
}
