// Package snapshot loads discussion board exports.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/peercount/internal/model"
)

const defaultThread = "General"

// File is the on-disk export layout. JSON exports decode too.
type File struct {
	Posts   []PostEntry  `yaml:"posts"`
	Replies []ReplyEntry `yaml:"replies"`
}

// PostEntry is one exported post.
type PostEntry struct {
	ID        string     `yaml:"id"`
	Author    string     `yaml:"author"`
	Title     string     `yaml:"title"`
	Thread    string     `yaml:"thread"`
	Deleted   bool       `yaml:"deleted"`
	CreatedAt *time.Time `yaml:"created_at"`
}

// ReplyEntry is one exported reply.
type ReplyEntry struct {
	ID        string     `yaml:"id"`
	Post      string     `yaml:"post"`
	Author    string     `yaml:"author"`
	Content   string     `yaml:"content"`
	Deleted   bool       `yaml:"deleted"`
	CreatedAt *time.Time `yaml:"created_at"`
}

// Snapshot is a validated export.
type Snapshot struct {
	Posts   []model.Post
	Replies []model.Reply
}

// LoadFile reads and validates an export file.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read export: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads and validates an export. Entries without an ID get a random one.
func Decode(r io.Reader) (Snapshot, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Snapshot{Posts: []model.Post{}, Replies: []model.Reply{}}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to decode export: %w", err)
	}
	return f.toSnapshot()
}

func (f File) toSnapshot() (Snapshot, error) {
	snap := Snapshot{
		Posts:   make([]model.Post, 0, len(f.Posts)),
		Replies: make([]model.Reply, 0, len(f.Replies)),
	}
	seen := map[string]struct{}{}
	for i, e := range f.Posts {
		p := model.Post{
			ID:      strings.TrimSpace(e.ID),
			Author:  strings.TrimSpace(e.Author),
			Title:   strings.TrimSpace(e.Title),
			Thread:  strings.TrimSpace(e.Thread),
			Deleted: e.Deleted,
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Author == "" {
			return Snapshot{}, fmt.Errorf("post %d (%s): author is required", i+1, p.ID)
		}
		if p.Thread == "" {
			p.Thread = defaultThread
		}
		if e.CreatedAt != nil {
			p.CreatedAt = *e.CreatedAt
		}
		if _, dup := seen["post:"+p.ID]; dup {
			return Snapshot{}, fmt.Errorf("post %d: duplicate id %q", i+1, p.ID)
		}
		seen["post:"+p.ID] = struct{}{}
		snap.Posts = append(snap.Posts, p)
	}
	for i, e := range f.Replies {
		r := model.Reply{
			ID:      strings.TrimSpace(e.ID),
			PostID:  strings.TrimSpace(e.Post),
			Author:  strings.TrimSpace(e.Author),
			Content: strings.TrimSpace(e.Content),
			Deleted: e.Deleted,
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Author == "" {
			return Snapshot{}, fmt.Errorf("reply %d (%s): author is required", i+1, r.ID)
		}
		if r.PostID == "" {
			return Snapshot{}, fmt.Errorf("reply %d (%s): post is required", i+1, r.ID)
		}
		if e.CreatedAt == nil {
			return Snapshot{}, fmt.Errorf("reply %d (%s): created_at is required", i+1, r.ID)
		}
		r.CreatedAt = *e.CreatedAt
		if _, dup := seen["reply:"+r.ID]; dup {
			return Snapshot{}, fmt.Errorf("reply %d: duplicate id %q", i+1, r.ID)
		}
		seen["reply:"+r.ID] = struct{}{}
		snap.Replies = append(snap.Replies, r)
	}
	return snap, nil
}
