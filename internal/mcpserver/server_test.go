package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/testutil"
	"github.com/starford/ansuz/internal/vault"
)

func testServer(t *testing.T) (*Server, *vault.Store) {
	t.Helper()
	_, store := testutil.TestVault(t)
	srv := New(store, testutil.DiscardLogger())
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	// Call the handler functions directly, as the transport would.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "create_or_update_note":
		result, err = srv.createOrUpdateNote(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "upload_picture":
		result, err = srv.uploadPicture(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultLinks(r *mcp.CallToolResult) []mcp.ResourceLink {
	var links []mcp.ResourceLink
	for _, c := range r.Content {
		if l, ok := c.(mcp.ResourceLink); ok {
			links = append(links, l)
		}
	}
	return links
}

func TestCreateReturnsResourceLink(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path":    "journal/today",
		"content": "# Today",
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	links := resultLinks(r)
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	l := links[0]
	if l.URI != "note://journal/today.md" {
		t.Errorf("URI = %q", l.URI)
	}
	if l.Name != "journal/today.md" {
		t.Errorf("Name = %q", l.Name)
	}
	if l.Description != "Created a Markdown note" {
		t.Errorf("Description = %q", l.Description)
	}
	if l.MIMEType != "text/markdown" {
		t.Errorf("MIMEType = %q", l.MIMEType)
	}
}

func TestUpdateChangesDescription(t *testing.T) {
	srv, _ := testServer(t)

	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "n", "content": "one",
	})
	r := callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "n.md", "content": "two",
	})
	links := resultLinks(r)
	if len(links) != 1 || links[0].Description != "Updated a Markdown note" {
		t.Errorf("second write should report an update, got %+v", links)
	}

	read := callTool(t, srv, "read_note", map[string]interface{}{"path": "n"})
	if resultText(read) != "two" {
		t.Errorf("read = %q, want %q", resultText(read), "two")
	}
}

func TestReadMissingIsToolError(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestTraversalIsToolError(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "../../outside", "content": "x",
	})
	if !r.IsError {
		t.Fatal("expected error for traversal path")
	}
	if !strings.Contains(resultText(r), "not within the notes directory") {
		t.Errorf("unexpected message: %q", resultText(r))
	}
}

func TestDeleteNote(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "gone", "content": "bye",
	})

	r := callTool(t, srv, "delete_note", map[string]interface{}{"path": "gone"})
	if r.IsError {
		t.Fatalf("delete failed: %s", resultText(r))
	}
	if resultText(r) != "Note deleted." {
		t.Errorf("delete result = %q", resultText(r))
	}

	r = callTool(t, srv, "delete_note", map[string]interface{}{"path": "gone"})
	if !r.IsError {
		t.Error("second delete should fail")
	}
}

func TestListNotesSingular(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "x", "content": "x",
	})
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "y/z", "content": "z",
	})

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.HasPrefix(text, "1 note in the notes root:") {
		t.Errorf("summary = %q", text)
	}
	links := resultLinks(r)
	if len(links) != 1 || links[0].URI != "note://x.md" {
		t.Errorf("links = %+v", links)
	}
}

func TestListNotesPluralAndEmpty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	if !strings.HasPrefix(resultText(r), "No notes found in the notes root.") {
		t.Errorf("empty summary = %q", resultText(r))
	}

	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{"path": "a", "content": "a"})
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{"path": "b", "content": "b"})
	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	if !strings.HasPrefix(resultText(r), "2 notes in the notes root:") {
		t.Errorf("plural summary = %q", resultText(r))
	}
}

func TestListNotesSubdirectoryLinks(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "projects/alpha", "content": "a",
	})

	r := callTool(t, srv, "list_notes", map[string]interface{}{"directory": "projects"})
	links := resultLinks(r)
	if len(links) != 1 {
		t.Fatalf("links = %+v", links)
	}
	if links[0].URI != "note://projects/alpha.md" || links[0].Name != "projects/alpha.md" {
		t.Errorf("link = %+v", links[0])
	}
}

func TestListNotesIncludeDirectories(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "top", "content": "t",
	})
	_ = callTool(t, srv, "create_or_update_note", map[string]interface{}{
		"path": "sub/inner", "content": "i",
	})

	r := callTool(t, srv, "list_notes", map[string]interface{}{
		"include_directories": true,
	})
	text := resultText(r)
	if !strings.Contains(text, "1 directory in the notes root:") {
		t.Errorf("summary missing directory section: %q", text)
	}
	if !strings.Contains(text, "- sub") {
		t.Errorf("summary missing directory name: %q", text)
	}
}

func TestListNotesMissingDirectory(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_notes", map[string]interface{}{"directory": "absent"})
	if !r.IsError {
		t.Error("expected error for missing directory")
	}
}

func TestFormatListingPhrasing(t *testing.T) {
	cases := []struct {
		listing     vault.Listing
		includeDirs bool
		want        string
	}{
		{vault.Listing{}, false, "No notes found in the notes root."},
		{vault.Listing{Notes: []string{"a.md"}}, false, "1 note in the notes root:\n- a.md"},
		{vault.Listing{Dir: "d", Notes: []string{"a.md", "b.md"}}, false, "2 notes in \"d\":\n- a.md\n- b.md"},
		{vault.Listing{Dirs: []string{"s"}}, true, "No notes found in the notes root.\n\n1 directory in the notes root:\n- s"},
	}
	for _, c := range cases {
		if got := formatListing(c.listing, c.includeDirs); got != c.want {
			t.Errorf("formatListing(%+v) = %q, want %q", c.listing, got, c.want)
		}
	}
}
