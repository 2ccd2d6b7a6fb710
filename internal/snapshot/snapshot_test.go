package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const sampleExport = `
posts:
  - id: P1
    author: " alice "
    title: Loops
    created_at: 2025-11-01T12:00:00Z
  - id: P2
    author: carol
    thread: Homework
    deleted: true
replies:
  - id: R1
    post: P1
    author: bob
    content: Use a range loop.
    created_at: 2025-11-02T09:30:00Z
  - post: P2
    author: bob
    content: Same here.
    deleted: true
    created_at: 2025-11-03T10:00:00-05:00
`

func TestDecodeExport(t *testing.T) {
	snap, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Posts) != 2 || len(snap.Replies) != 2 {
		t.Fatalf("unexpected sizes: %d posts, %d replies", len(snap.Posts), len(snap.Replies))
	}
	if snap.Posts[0].Author != "alice" {
		t.Fatalf("expected author to be trimmed, got %q", snap.Posts[0].Author)
	}
	if snap.Posts[0].Thread != "General" || snap.Posts[1].Thread != "Homework" {
		t.Fatalf("unexpected threads: %q, %q", snap.Posts[0].Thread, snap.Posts[1].Thread)
	}
	if !snap.Posts[1].Deleted || !snap.Replies[1].Deleted {
		t.Fatalf("expected deleted flags to be kept")
	}
	want := time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)
	if !snap.Replies[0].CreatedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, snap.Replies[0].CreatedAt)
	}
	if _, err := uuid.Parse(snap.Replies[1].ID); err != nil {
		t.Fatalf("expected generated uuid, got %q", snap.Replies[1].ID)
	}
}

func TestDecodeJSONExport(t *testing.T) {
	in := `{"posts":[{"id":"P1","author":"alice"}],"replies":[{"id":"R1","post":"P1","author":"bob","created_at":"2025-11-02T09:30:00Z"}]}`
	snap, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Replies) != 1 || snap.Replies[0].PostID != "P1" {
		t.Fatalf("unexpected replies: %+v", snap.Replies)
	}
}

func TestDecodeEmptyExport(t *testing.T) {
	snap, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Posts == nil || snap.Replies == nil {
		t.Fatalf("expected empty non-nil slices")
	}
}

func TestDecodeRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"missing author":     "posts:\n  - id: P1\n",
		"missing post":       "replies:\n  - id: R1\n    author: bob\n    created_at: 2025-11-02T09:30:00Z\n",
		"missing created_at": "replies:\n  - id: R1\n    post: P1\n    author: bob\n",
		"duplicate post":     "posts:\n  - id: P1\n    author: a\n  - id: P1\n    author: b\n",
		"unknown field":      "posts:\n  - id: P1\n    author: a\n    score: 3\n",
	}
	for name, in := range cases {
		if _, err := Decode(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(snap.Posts))
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
