// Package watch observes the notes root for changes made outside the
// protocol session.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/vault"
)

// EventCallback is called for each observed note change.
// kind is one of "created", "updated", "deleted"; path is the logical
// note path relative to the root.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on root and reports note file changes
// until ctx is cancelled. New directories created at runtime are added to
// the watch list automatically. A rename is reported as a deletion of the
// old path; the new path arrives as a separate create event when it stays
// under a watched directory.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: watch them and report any notes they
			// already contain (a directory moved into the root arrives
			// as one create event).
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					reportNotesUnder(root, absPath, logger, cb)
					continue
				}
			}

			base := filepath.Base(absPath)
			if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, vault.NoteExtension) {
				continue
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: note created", slog.String("path", rel))
				if cb != nil {
					cb("created", rel)
				}

			case ev.Op&fsnotify.Write != 0:
				logger.Debug("watcher: note updated", slog.String("path", rel))
				if cb != nil {
					cb("updated", rel)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("watcher: note deleted", slog.String("path", rel))
				if cb != nil {
					cb("deleted", rel)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportNotesUnder reports every note below dir as created.
func reportNotesUnder(root, dir string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, vault.NoteExtension) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		logger.Debug("watcher: note found in new dir", slog.String("path", rel))
		if cb != nil {
			cb("created", rel)
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
