// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/peercount/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for discussion board data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			author TEXT NOT NULL,
			title TEXT NOT NULL,
			thread TEXT NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS replies (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			author TEXT NOT NULL,
			content TEXT NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_replies_post_id ON replies(post_id);`,
		`CREATE INDEX IF NOT EXISTS idx_replies_author ON replies(author);`,
		`CREATE INDEX IF NOT EXISTS idx_replies_created_at ON replies(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertPostSQL = `INSERT INTO posts (id, author, title, thread, deleted, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		author = excluded.author,
		title = excluded.title,
		thread = excluded.thread,
		deleted = excluded.deleted,
		created_at = excluded.created_at`

const upsertReplySQL = `INSERT INTO replies (id, post_id, author, content, deleted, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		post_id = excluded.post_id,
		author = excluded.author,
		content = excluded.content,
		deleted = excluded.deleted,
		created_at = excluded.created_at`

func upsertPost(ctx context.Context, ex execer, p model.Post) error {
	_, err := ex.ExecContext(ctx, upsertPostSQL,
		p.ID, p.Author, p.Title, p.Thread, boolToInt(p.Deleted), formatTime(p.CreatedAt))
	return err
}

func upsertReply(ctx context.Context, ex execer, r model.Reply) error {
	_, err := ex.ExecContext(ctx, upsertReplySQL,
		r.ID, r.PostID, r.Author, r.Content, boolToInt(r.Deleted), formatTime(r.CreatedAt))
	return err
}

// UpsertPost inserts a post or replaces the stored copy with the same ID.
func (s *Store) UpsertPost(ctx context.Context, p model.Post) error {
	return upsertPost(ctx, s.db, p)
}

// UpsertReply inserts a reply or replaces the stored copy with the same ID.
func (s *Store) UpsertReply(ctx context.Context, r model.Reply) error {
	return upsertReply(ctx, s.db, r)
}

// ImportSnapshot upserts all posts and replies in one transaction.
func (s *Store) ImportSnapshot(ctx context.Context, posts []model.Post, replies []model.Reply) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, p := range posts {
		if err = upsertPost(ctx, tx, p); err != nil {
			return err
		}
	}
	for _, r := range replies {
		if err = upsertReply(ctx, tx, r); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetPostDeleted sets the soft-delete flag of a post. It returns false if no post has the ID.
func (s *Store) SetPostDeleted(ctx context.Context, id string, deleted bool) (bool, error) {
	return s.setDeleted(ctx, `UPDATE posts SET deleted = ? WHERE id = ?`, id, deleted)
}

// SetReplyDeleted sets the soft-delete flag of a reply. It returns false if no reply has the ID.
func (s *Store) SetReplyDeleted(ctx context.Context, id string, deleted bool) (bool, error) {
	return s.setDeleted(ctx, `UPDATE replies SET deleted = ? WHERE id = ?`, id, deleted)
}

func (s *Store) setDeleted(ctx context.Context, query, id string, deleted bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, boolToInt(deleted), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPosts returns every stored post, deleted ones included, ordered by creation time.
// The result is never nil.
func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, author, title, thread, deleted, created_at
		FROM posts
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		var deleted int
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Author, &p.Title, &p.Thread, &deleted, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		p.Deleted = deleted != 0
		p.CreatedAt = parsed
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListReplies returns every stored reply, deleted ones included, ordered by creation time.
// The result is never nil.
func (s *Store) ListReplies(ctx context.Context) ([]model.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, post_id, author, content, deleted, created_at
		FROM replies
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	replies := []model.Reply{}
	for rows.Next() {
		var r model.Reply
		var deleted int
		var createdAt string
		if err := rows.Scan(&r.ID, &r.PostID, &r.Author, &r.Content, &deleted, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		r.Deleted = deleted != 0
		r.CreatedAt = parsed
		replies = append(replies, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return replies, nil
}

// CountRows returns the number of stored posts and replies.
func (s *Store) CountRows(ctx context.Context) (posts, replies int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&posts); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM replies`).Scan(&replies); err != nil {
		return 0, 0, err
	}
	return posts, replies, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
