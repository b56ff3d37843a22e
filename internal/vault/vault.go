// Package vault implements the confined note and picture store.
//
// All operations take caller-supplied relative paths and resolve them
// through confine, which guarantees the result stays under the vault root
// no matter how the input is spelled.
package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
)

// NoteExtension is the suffix every note file carries.
const NoteExtension = ".md"

// Store owns the vault root directory for the process lifetime.
type Store struct {
	root string // absolute path to the notes directory
	log  *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if it does
// not exist yet.
func New(dir string, log *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("vault: create root: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{root: abs, log: log}, nil
}

// Root returns the absolute path of the notes directory.
func (s *Store) Root() string { return s.root }

// confine resolves a caller-supplied path against the vault root and
// rejects any result that escapes it. Leading separators are stripped, so
// absolute-looking input is treated as root-relative. The check is
// canonicalize-then-prefix-compare: ".." segments are resolved
// arithmetically by Join/Clean and the result must sit at or below root
// on a segment boundary. Comparison is case-sensitive; case-folding
// filesystems are out of scope.
func (s *Store) confine(rel string) (string, error) {
	trimmed := strings.TrimLeft(rel, "/"+string(os.PathSeparator))
	if trimmed == "" {
		return s.root, nil
	}
	if filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("vault: %q: %w", rel, apperr.ErrOutsideRoot)
	}
	joined := filepath.Join(s.root, trimmed)
	if joined != s.root && !strings.HasPrefix(joined, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("vault: %q: %w", rel, apperr.ErrOutsideRoot)
	}
	return joined, nil
}

// writeFile atomically writes content: tmp file → fsync → rename. Parent
// directories are created as needed; creating an existing one is not an
// error, so concurrent writers are safe here.
func (s *Store) writeFile(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vault: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ansuz-tmp-*")
	if err != nil {
		return fmt.Errorf("vault: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("vault: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("vault: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vault: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("vault: rename: %w", err)
	}
	success = true
	return nil
}
