package participation

import (
	"sort"

	"github.com/verte-zerg/peercount/internal/model"
)

// RankLess orders students needing attention first: records missing the
// requirement ascending by count, then records meeting it descending by count.
// Ties fall back to the student name.
func RankLess(a, b model.ParticipationRecord) bool {
	if a.MeetsRequirement != b.MeetsRequirement {
		return !a.MeetsRequirement
	}
	if a.DistinctPeers != b.DistinctPeers {
		if a.MeetsRequirement {
			return a.DistinctPeers > b.DistinctPeers
		}
		return a.DistinctPeers < b.DistinctPeers
	}
	return a.Student < b.Student
}

// SortRanked sorts records in place by RankLess.
func SortRanked(records []model.ParticipationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return RankLess(records[i], records[j])
	})
}

func rankSummary(summary map[string]model.ParticipationRecord) []model.ParticipationRecord {
	out := make([]model.ParticipationRecord, 0, len(summary))
	for _, rec := range summary {
		out = append(out, rec)
	}
	SortRanked(out)
	return out
}
