package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/sitesearch/internal/storage"
)

// Change kinds reported to an EventCallback.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

const reconcileDelay = 200 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
// kind is one of ChangeCreated, ChangeUpdated, ChangeDeleted.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the content root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// index entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	root := store.Root()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, path string) {
		if cb != nil {
			cb(kind, path)
		}
	}

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if strings.HasPrefix(info.Name(), ".") {
						continue
					}
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					// Files may have landed before the directory was watched.
					scheduleReconcile()
					continue
				}
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !store.Matches(rel) {
				// A directory moved or removed out of the root carries its posts along.
				if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
					scheduleReconcile()
				}
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				existing, _ := db.GetChecksum(rel)
				if existing == storage.Checksum(data) {
					continue
				}
				if idxErr := indexFile(db, rel, data, time.Now()); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := ChangeUpdated
				if existing == "" {
					kind = ChangeCreated
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				notify(kind, rel)

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeletePost(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				notify(ChangeDeleted, rel)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a separate Create if it stays under a watched dir.
				if delErr := db.DeletePost(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", rel))
					notify(ChangeDeleted, rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile does a lightweight sync using batch lookups: it removes index
// entries without a file on disk and indexes files that are new or changed.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, notify EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if delErr := db.DeletePost(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", p))
				notify(ChangeDeleted, p)
			}
		}
	}

	for _, m := range metas {
		prev, known := checksums[m.Path]
		if prev == m.Checksum {
			continue
		}
		data, readErr := store.Read(m.Path)
		if readErr != nil {
			continue
		}
		if idxErr := indexFile(db, m.Path, data, m.UpdatedAt); idxErr == nil {
			kind := ChangeUpdated
			if !known {
				kind = ChangeCreated
			}
			logger.Debug("reconcile: indexed", slog.String("path", m.Path), slog.String("op", kind))
			notify(kind, m.Path)
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
