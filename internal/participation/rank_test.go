package participation

import (
	"testing"

	"github.com/verte-zerg/peercount/internal/model"
)

func TestSortRankedTwoTierOrder(t *testing.T) {
	records := []model.ParticipationRecord{
		{Student: "C", DistinctPeers: 2, MeetsRequirement: true},
		{Student: "B", DistinctPeers: 3, MeetsRequirement: false},
		{Student: "D", DistinctPeers: 5, MeetsRequirement: true},
		{Student: "A", DistinctPeers: 1, MeetsRequirement: false},
	}
	SortRanked(records)
	var got string
	for _, r := range records {
		got += r.Student
	}
	if got != "ABDC" {
		t.Fatalf("unexpected order: %s", got)
	}
}

func TestSortRankedTiesUseStudentName(t *testing.T) {
	records := []model.ParticipationRecord{
		{Student: "zed", DistinctPeers: 1},
		{Student: "amy", DistinctPeers: 1},
		{Student: "kim", DistinctPeers: 4, MeetsRequirement: true},
		{Student: "jon", DistinctPeers: 4, MeetsRequirement: true},
	}
	SortRanked(records)
	want := []string{"amy", "zed", "jon", "kim"}
	for i, name := range want {
		if records[i].Student != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, records[i].Student)
		}
	}
}

func TestServiceRankedList(t *testing.T) {
	svc := newTestService(t, 2)
	posts := []model.Post{
		post("P1", "alice"),
		post("P2", "carol"),
		post("P3", "dave"),
		post("P4", "frank"),
		post("P5", "gina"),
	}
	replies := []model.Reply{
		reply("R1", "P1", "bob"),
		reply("R2", "P1", "eve"),
		reply("R3", "P2", "eve"),
		reply("R4", "P3", "eve"),
		reply("R5", "P1", "hal"),
		reply("R6", "P2", "hal"),
		reply("R7", "P3", "hal"),
		reply("R8", "P4", "hal"),
		reply("R9", "P5", "hal"),
	}
	if err := svc.Refresh(posts, replies); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ranked := svc.RankedList()
	want := []string{"bob", "hal", "eve"}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(ranked))
	}
	for i, name := range want {
		if ranked[i].Student != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, ranked[i].Student)
		}
	}
}
