package participation

import (
	"fmt"

	"github.com/verte-zerg/peercount/internal/model"
)

// BuildSummary converts an answer graph into one record per answerer.
// Students who answered nobody are absent from the result.
func BuildSummary(graph AnswerGraph, threshold int) (map[string]model.ParticipationRecord, error) {
	if graph == nil {
		return nil, fmt.Errorf("%w: answer graph must not be nil", model.ErrInvalidArgument)
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	summary := make(map[string]model.ParticipationRecord, len(graph))
	for student, peers := range graph {
		count := len(peers)
		rec, err := model.NewParticipationRecord(student, count, count >= threshold)
		if err != nil {
			return nil, fmt.Errorf("failed to build record for %q: %w", student, err)
		}
		summary[student] = rec
	}
	return summary, nil
}

func validateThreshold(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: required threshold must be at least 1, got %d", model.ErrInvalidArgument, n)
	}
	return nil
}
