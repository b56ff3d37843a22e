// Package mcpserver exposes the note vault to agents over the Model
// Context Protocol: one tool per vault operation plus a note:// resource
// space kept in sync with the notes on disk.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/vault"
)

// Server wraps the MCP server with the note vault tools.
type Server struct {
	mcp   *server.MCPServer
	vault *vault.Store
	log   *slog.Logger

	mu        sync.Mutex
	resources map[string]struct{} // registered note resource URIs
}

// New creates an MCP server with all note tools and resources registered.
func New(store *vault.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{vault: store, log: log, resources: make(map[string]struct{})}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
	)

	s.mcp.AddTool(mcp.NewTool("create_or_update_note",
		mcp.WithTitleAnnotation("Create or update a note"),
		mcp.WithDescription("Create a new Markdown note or update the existing Markdown note "+
			"at the given path with the given content. The note path can contain "+
			"subdirectories, separated by '/'. Subdirectories are created if they do not "+
			"exist. The result is a resource link to the created or updated note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the note (the .md extension is appended if absent)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content; the full note body is overwritten")),
	), s.createOrUpdateNote)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithTitleAnnotation("Read a note"),
		mcp.WithDescription("Read the content of the note with the given path. "+
			"The result is the content of the note in Markdown format."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithTitleAnnotation("Delete a note"),
		mcp.WithDescription("Delete the note with the given path. The note path can contain "+
			"subdirectories, separated by '/'. Subdirectories are not deleted. "+
			"The result is a message indicating that the note was deleted."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithTitleAnnotation("List notes in a directory"),
		mcp.WithDescription("List all Markdown notes in the given directory. The result is a "+
			"summary plus a list of resource links to the notes. The resource link names can "+
			"be used as path for the other tools. To list the root directory, use an empty "+
			"string or '/' for the directory."),
		mcp.WithString("directory", mcp.Description("Directory to list (empty for the notes root)")),
		mcp.WithBoolean("include_directories", mcp.Description("Also list the child directories")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("upload_picture",
		mcp.WithTitleAnnotation("Upload a picture"),
		mcp.WithDescription(fmt.Sprintf("Upload a picture to the notes directory. The picture path "+
			"can contain subdirectories, separated by '/'. Subdirectories are created if they "+
			"do not exist. Supported picture extensions are: %v. The picture content is "+
			"base64-encoded. The result is a resource link to the uploaded picture.",
			vault.PictureExtensions())),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the picture, extension included")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Base64-encoded picture content")),
	), s.uploadPicture)

	// Resource template: every note is addressable as note://<path>.
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(NoteURIPrefix+"{+path}", "notes",
			mcp.WithTemplateDescription("Markdown notes stored in directories"),
			mcp.WithTemplateMIMEType(NoteMIMEType),
		),
		s.readNoteResource,
	)

	if err := s.SyncResources(); err != nil {
		log.Warn("initial resource sync failed", slog.String("error", err.Error()))
	}

	return s
}

// ServeStdio runs the MCP session on stdin/stdout until ctx is cancelled
// or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// MCP returns the underlying server, for tests and transport wiring.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func (s *Server) createOrUpdateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.vault.CreateOrUpdate(path, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.SyncResources(); err != nil {
		s.log.Warn("resource sync failed", slog.String("error", err.Error()))
	}

	desc := "Updated a Markdown note"
	if res.Created {
		desc = "Created a Markdown note"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewResourceLink(noteURI(res.Path), res.Path, desc, NoteMIMEType),
		},
	}, nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.vault.Read(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.vault.Delete(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.SyncResources(); err != nil {
		s.log.Warn("resource sync failed", slog.String("error", err.Error()))
	}
	return mcp.NewToolResultText("Note deleted."), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("directory", "")
	includeDirs := req.GetBool("include_directories", false)

	listing, err := s.vault.List(dir, includeDirs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content := []mcp.Content{
		mcp.TextContent{Type: "text", Text: formatListing(listing, includeDirs)},
	}
	for _, name := range listing.Notes {
		logical := joinLogical(listing.Dir, name)
		content = append(content, mcp.NewResourceLink(noteURI(logical), logical, "Markdown note", NoteMIMEType))
	}
	return &mcp.CallToolResult{Content: content}, nil
}

// formatListing renders the human-readable count-and-bullet summary.
// Counts phrase as singular or plural exactly; an empty result reads
// "No notes found", never "0 notes".
func formatListing(l vault.Listing, includeDirs bool) string {
	label := "the notes root"
	if l.Dir != "" {
		label = fmt.Sprintf("%q", l.Dir)
	}

	var b []byte
	switch n := len(l.Notes); n {
	case 0:
		b = fmt.Appendf(b, "No notes found in %s.", label)
	case 1:
		b = fmt.Appendf(b, "1 note in %s:", label)
	default:
		b = fmt.Appendf(b, "%d notes in %s:", n, label)
	}
	for _, name := range l.Notes {
		b = fmt.Appendf(b, "\n- %s", name)
	}

	if includeDirs {
		b = append(b, "\n\n"...)
		switch n := len(l.Dirs); n {
		case 0:
			b = fmt.Appendf(b, "No directories found in %s.", label)
		case 1:
			b = fmt.Appendf(b, "1 directory in %s:", label)
		default:
			b = fmt.Appendf(b, "%d directories in %s:", n, label)
		}
		for _, name := range l.Dirs {
			b = fmt.Appendf(b, "\n- %s", name)
		}
	}
	return string(b)
}
