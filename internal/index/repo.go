package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostRow represents a row in the posts table.
type PostRow struct {
	Path        string
	Title       string
	URL         string
	Checksum    string
	Draft       bool
	PublishedAt time.Time // zero when the post has no date
	UpdatedAt   time.Time
}

// UpsertPost inserts or replaces a post.
func (db *DB) UpsertPost(p PostRow) error {
	var published any
	if !p.PublishedAt.IsZero() {
		published = p.PublishedAt.UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO posts (path, title, url, checksum, draft, published_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title        = excluded.title,
			url          = excluded.url,
			checksum     = excluded.checksum,
			draft        = excluded.draft,
			published_at = excluded.published_at,
			updated_at   = excluded.updated_at
	`, p.Path, p.Title, p.URL, p.Checksum, p.Draft, published, p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert post: %w", err)
	}
	return nil
}

// DeletePost removes a post.
func (db *DB) DeletePost(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM posts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete post: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a post, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM posts WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed post.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Posts returns posts newest first; undated posts come last, ties are
// ordered by path. Drafts are skipped unless includeDrafts is set.
func (db *DB) Posts(includeDrafts bool) ([]PostRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, title, url, checksum, draft, published_at, updated_at
		FROM posts
		WHERE ? OR draft = 0
		ORDER BY published_at IS NULL, published_at DESC, path ASC
	`, includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("index: posts: %w", err)
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		var (
			r         PostRow
			published sql.NullTime
		)
		if err := rows.Scan(&r.Path, &r.Title, &r.URL, &r.Checksum, &r.Draft, &published, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("index: scan post: %w", err)
		}
		if published.Valid {
			r.PublishedAt = published.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of indexed posts, drafts included.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
