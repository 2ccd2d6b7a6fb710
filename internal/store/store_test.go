package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/peercount/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "peercount.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestImportSnapshotRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 11, 1, 12, 0, 0, 500, time.FixedZone("EST", -5*3600))

	posts := []model.Post{
		{ID: "P2", Author: "carol", Title: "Second", Thread: "General", CreatedAt: base.Add(time.Hour)},
		{ID: "P1", Author: "alice", Title: "First", Thread: "General", CreatedAt: base, Deleted: true},
	}
	replies := []model.Reply{
		{ID: "R1", PostID: "P1", Author: "bob", Content: "Answer one", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "R2", PostID: "P2", Author: "bob", Content: "Answer two", CreatedAt: base.Add(90 * time.Minute)},
	}
	if err := st.ImportSnapshot(ctx, posts, replies); err != nil {
		t.Fatalf("import: %v", err)
	}

	gotPosts, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(gotPosts) != 2 || gotPosts[0].ID != "P1" || gotPosts[1].ID != "P2" {
		t.Fatalf("unexpected posts: %+v", gotPosts)
	}
	if !gotPosts[0].Deleted || gotPosts[1].Deleted {
		t.Fatalf("unexpected deleted flags: %+v", gotPosts)
	}
	if !gotPosts[0].CreatedAt.Equal(base) {
		t.Fatalf("expected created_at %v, got %v", base, gotPosts[0].CreatedAt)
	}

	gotReplies, err := st.ListReplies(ctx)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(gotReplies) != 2 || gotReplies[0].ID != "R2" || gotReplies[1].ID != "R1" {
		t.Fatalf("expected replies ordered by time, got %+v", gotReplies)
	}
	if gotReplies[1].Content != "Answer one" || gotReplies[1].PostID != "P1" {
		t.Fatalf("unexpected reply: %+v", gotReplies[1])
	}
}

func TestImportSnapshotUpserts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	post := model.Post{ID: "P1", Author: "alice", Title: "First", Thread: "General", CreatedAt: at}
	if err := st.ImportSnapshot(ctx, []model.Post{post}, nil); err != nil {
		t.Fatalf("import: %v", err)
	}
	post.Title = "Edited"
	if err := st.UpsertPost(ctx, post); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertReply(ctx, model.Reply{ID: "R1", PostID: "P1", Author: "bob", Content: "hi there", CreatedAt: at}); err != nil {
		t.Fatalf("upsert reply: %v", err)
	}
	posts, replies, err := st.CountRows(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if posts != 1 || replies != 1 {
		t.Fatalf("expected 1 post and 1 reply, got %d and %d", posts, replies)
	}
	got, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if got[0].Title != "Edited" {
		t.Fatalf("expected upsert to replace title, got %q", got[0].Title)
	}
}

func TestSetDeletedFlags(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	if err := st.ImportSnapshot(ctx,
		[]model.Post{{ID: "P1", Author: "alice", Title: "First", Thread: "General", CreatedAt: at}},
		[]model.Reply{{ID: "R1", PostID: "P1", Author: "bob", Content: "hi there", CreatedAt: at}},
	); err != nil {
		t.Fatalf("import: %v", err)
	}

	ok, err := st.SetPostDeleted(ctx, "P1", true)
	if err != nil || !ok {
		t.Fatalf("set post deleted: ok=%v err=%v", ok, err)
	}
	ok, err = st.SetReplyDeleted(ctx, "R1", true)
	if err != nil || !ok {
		t.Fatalf("set reply deleted: ok=%v err=%v", ok, err)
	}
	ok, err = st.SetReplyDeleted(ctx, "missing", true)
	if err != nil || ok {
		t.Fatalf("expected missing reply to report false: ok=%v err=%v", ok, err)
	}

	posts, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	replies, err := st.ListReplies(ctx)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if !posts[0].Deleted || !replies[0].Deleted {
		t.Fatalf("expected both rows soft-deleted")
	}
}

func TestListOnEmptyStoreIsNotNil(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	posts, err := st.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	replies, err := st.ListReplies(ctx)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if posts == nil || replies == nil {
		t.Fatalf("expected empty non-nil slices")
	}
}
