package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/weavehq/weave/internal/apperr"
)

// EventCallback is called after a watcher-driven change.
// kind is one of "processed", "skipped", "deleted"; the second argument is
// the document slug.
type EventCallback func(kind string, slug string)

// Watch starts an fsnotify watcher on the posts root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after each
// pipeline mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// index entries whose files no longer exist on disk.
func Watch(ctx context.Context, svc *Service, postsRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, postsRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", postsRoot))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
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
			reconcile(ctx, svc, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// --- Handle new directories: add to watcher ---
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					// Process any .md files already in the new directory.
					processNewDir(ctx, svc, postsRoot, absPath, logger, cb)
					continue
				}
			}

			// Only process .md files from here on.
			if !strings.HasSuffix(absPath, ".md") {
				continue
			}

			rel, relErr := filepath.Rel(postsRoot, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				res, procErr := svc.ProcessFile(ctx, rel, false)
				if procErr != nil {
					logger.Warn("watcher: process failed", slog.String("path", rel), slog.String("error", procErr.Error()))
					continue
				}
				logger.Debug("watcher: processed", slog.String("path", rel), slog.Bool("skipped", res.Skipped))
				if cb != nil {
					if res.Skipped {
						cb("skipped", res.Slug)
					} else {
						cb("processed", res.Slug)
					}
				}

			case ev.Op&fsnotify.Remove != 0:
				slug, delErr := svc.RemoveSource(rel)
				if delErr != nil {
					if !errors.Is(delErr, apperr.ErrNotFound) {
						logger.Warn("watcher: remove failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					}
					continue
				}
				logger.Debug("watcher: deleted", slog.String("slug", slug))
				if cb != nil {
					cb("deleted", slug)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path will arrive as a separate Create event (if it
				// stays within a watched dir). We drop the old entry
				// immediately and schedule a short reconciliation pass
				// to catch any stragglers.
				slug, delErr := svc.RemoveSource(rel)
				if delErr != nil {
					if !errors.Is(delErr, apperr.ErrNotFound) {
						logger.Warn("watcher: rename remove failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					}
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("slug", slug))
					if cb != nil {
						cb("deleted", slug)
					}
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

// reconcile does a lightweight sync using batch lookups: index entries
// without a corresponding file on disk are removed, and on-disk files that
// are new or changed are reprocessed.
func reconcile(ctx context.Context, svc *Service, logger *slog.Logger, cb EventCallback) {
	indexed, err := svc.db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := svc.store.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range indexed {
		if _, ok := disk[p]; !ok {
			if slug, delErr := svc.RemoveSource(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("slug", slug))
				if cb != nil {
					cb("deleted", slug)
				}
			}
		}
	}

	for p, cs := range disk {
		if indexed[p] == cs {
			continue
		}
		res, procErr := svc.ProcessFile(ctx, p, false)
		if procErr != nil {
			continue
		}
		logger.Debug("reconcile: processed", slog.String("path", p))
		if cb != nil && !res.Skipped {
			cb("processed", res.Slug)
		}
	}
}

// processNewDir processes any .md files found in a newly created directory.
func processNewDir(ctx context.Context, svc *Service, postsRoot, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(postsRoot, path)
		if relErr != nil {
			return nil
		}
		res, procErr := svc.ProcessFile(ctx, rel, false)
		if procErr != nil {
			return nil
		}
		logger.Debug("watcher: processed from new dir", slog.String("path", rel))
		if cb != nil && !res.Skipped {
			cb("processed", res.Slug)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
