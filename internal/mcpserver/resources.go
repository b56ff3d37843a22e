package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/apperr"
)

const (
	// NoteURIPrefix addresses notes from the caller's perspective.
	NoteURIPrefix = "note://"
	// PictureURIPrefix addresses uploaded pictures. Constructed for upload
	// results only; no picture resource space is registered.
	PictureURIPrefix = "img://"
	// NoteMIMEType is the fixed MIME type of every note resource.
	NoteMIMEType = "text/markdown"
)

func noteURI(path string) string { return NoteURIPrefix + path }

func pictureURI(path string) string { return PictureURIPrefix + path }

// joinLogical concatenates a directory prefix with an entry name. Entries
// directly in the root carry no separator.
func joinLogical(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// readNoteResource resolves a note:// URI to the note content. A missing
// note yields empty contents rather than an error, so the protocol layer
// can represent an absent resource instead of failing the exchange.
func (s *Server) readNoteResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	if !strings.HasPrefix(uri, NoteURIPrefix) {
		return nil, fmt.Errorf("unsupported resource URI: %s", uri)
	}

	data, err := s.vault.Read(strings.TrimPrefix(uri, NoteURIPrefix))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("note resource not found", slog.String("uri", uri))
			return nil, nil
		}
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: NoteMIMEType,
			Text:     string(data),
		},
	}, nil
}

// ResourceLinks enumerates every note in the vault as a resource link,
// sorted by logical path. Notes directly in the root appear as
// note://name.md, nested ones as note://dir/name.md.
func (s *Server) ResourceLinks() ([]mcp.ResourceLink, error) {
	paths, err := s.vault.WalkNotes()
	if err != nil {
		return nil, err
	}
	links := make([]mcp.ResourceLink, 0, len(paths))
	for _, p := range paths {
		links = append(links, mcp.NewResourceLink(noteURI(p), p, "Markdown note", NoteMIMEType))
	}
	return links, nil
}

// SyncResources reconciles the registered resource set with the notes on
// disk: new notes are added, vanished ones removed. Safe for concurrent
// use; called at startup, after mutating tools, and from the watcher.
func (s *Server) SyncResources() error {
	links, err := s.ResourceLinks()
	if err != nil {
		return err
	}
	want := make(map[string]struct{}, len(links))
	for _, l := range links {
		want[l.URI] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for uri := range s.resources {
		if _, ok := want[uri]; !ok {
			s.mcp.RemoveResource(uri)
			delete(s.resources, uri)
		}
	}
	for _, l := range links {
		if _, ok := s.resources[l.URI]; ok {
			continue
		}
		s.mcp.AddResource(
			mcp.NewResource(l.URI, l.Name,
				mcp.WithResourceDescription("Markdown note"),
				mcp.WithMIMEType(NoteMIMEType),
			),
			s.readNoteResource,
		)
		s.resources[l.URI] = struct{}{}
	}
	return nil
}
