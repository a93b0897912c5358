package index

import (
	"log/slog"
	"time"

	"github.com/starford/sitesearch/internal/parser"
	"github.com/starford/sitesearch/internal/storage"
)

// SyncStats summarises one Sync pass.
type SyncStats struct {
	Indexed int
	Removed int
	Failed  int
}

// Changed reports whether the pass modified the index.
func (s SyncStats) Changed() bool {
	return s.Indexed > 0 || s.Removed > 0
}

// Sync walks the content store and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk (or no longer matching the filter) are deleted
func Sync(db *DB, store storage.Provider, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	metas, err := store.List()
	if err != nil {
		return stats, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			stats.Failed++
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data, m.UpdatedAt); err != nil {
			stats.Failed++
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			stats.Indexed++
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeletePost(p); err != nil {
				stats.Failed++
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				stats.Removed++
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return stats, nil
}

// indexFile parses data and upserts it into the DB.
func indexFile(db *DB, path string, data []byte, modTime time.Time) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}
	title := res.Title
	if title == "" {
		title = parser.TitleFromPath(path)
	}
	return db.UpsertPost(PostRow{
		Path:        path,
		Title:       title,
		URL:         parser.PostURL(path, res),
		Checksum:    storage.Checksum(data),
		Draft:       res.Draft,
		PublishedAt: res.Date,
		UpdatedAt:   modTime,
	})
}
