package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
)

// NotePath normalizes a caller-supplied note path: leading separators are
// stripped and the note extension is appended when absent. Two spellings
// that normalize equally address the same note.
func NotePath(path string) string {
	p := strings.TrimLeft(path, "/"+string(os.PathSeparator))
	if !strings.HasSuffix(p, NoteExtension) {
		p += NoteExtension
	}
	return p
}

// WriteResult reports the outcome of CreateOrUpdate.
type WriteResult struct {
	// Path is the normalized logical path of the note.
	Path string
	// Created is true when the note did not exist before the write.
	Created bool
}

// CreateOrUpdate writes content as the full body of the note at path,
// creating missing parent directories. The note extension is appended when
// absent. The write is a full overwrite; whether the note existed before
// is reported in the result, not treated as an error.
func (s *Store) CreateOrUpdate(path string, content []byte) (WriteResult, error) {
	logical := NotePath(path)
	abs, err := s.confine(logical)
	if err != nil {
		return WriteResult{}, err
	}

	// Existence decides "created" and must be checked before the write.
	created := true
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		created = false
	}

	if err := s.writeFile(abs, content); err != nil {
		return WriteResult{}, err
	}

	if created {
		s.log.Info("created a Markdown note", slog.String("path", logical))
	} else {
		s.log.Info("updated a Markdown note", slog.String("path", logical))
	}
	return WriteResult{Path: logical, Created: created}, nil
}

// Read returns the full content of the note at path.
func (s *Store) Read(path string) ([]byte, error) {
	logical := NotePath(path)
	abs, err := s.confine(logical)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("vault: note %s: %w", logical, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("vault: read %s: %w", logical, err)
	}
	return data, nil
}

// Delete removes the note at path. Parent directories are left in place
// even when they become empty.
func (s *Store) Delete(path string) (string, error) {
	logical := NotePath(path)
	abs, err := s.confine(logical)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("vault: note %s: %w", logical, apperr.ErrNotFound)
	}
	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("vault: delete %s: %w", logical, err)
	}
	s.log.Info("deleted a Markdown note", slog.String("path", logical))
	return logical, nil
}

// Listing is the result of a shallow directory listing.
type Listing struct {
	// Dir is the normalized logical directory that was listed ("" for root).
	Dir string
	// Notes holds the note file names directly inside Dir, sorted.
	Notes []string
	// Dirs holds the non-hidden child directory names, sorted; populated
	// only when the listing asked for directories.
	Dirs []string
}

// List enumerates the notes directly inside dir (no recursion). Hidden
// entries are skipped. When includeDirs is true, child directories are
// reported as well. An absent or non-directory path yields ErrNotFound.
func (s *Store) List(dir string, includeDirs bool) (Listing, error) {
	logical := strings.TrimLeft(dir, "/"+string(os.PathSeparator))
	abs, err := s.confine(logical)
	if err != nil {
		return Listing{}, err
	}
	if info, statErr := os.Stat(abs); statErr != nil || !info.IsDir() {
		return Listing{}, fmt.Errorf("vault: directory %q: %w", logical, apperr.ErrNotFound)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return Listing{}, fmt.Errorf("vault: list %q: %w", logical, err)
	}

	out := Listing{Dir: strings.TrimSuffix(logical, "/")}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case e.IsDir():
			if includeDirs {
				out.Dirs = append(out.Dirs, name)
			}
		case strings.HasSuffix(name, NoteExtension):
			out.Notes = append(out.Notes, name)
		}
	}
	// ReadDir sorts by name already; keep the guarantee explicit.
	sort.Strings(out.Notes)
	sort.Strings(out.Dirs)
	return out, nil
}

// WalkNotes returns the logical paths of every note in the vault, at all
// depths, sorted. Hidden files and hidden directories are skipped.
func (s *Store) WalkNotes() ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, NoteExtension) {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: walk: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
