package mcpserver

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestUploadPicture(t *testing.T) {
	srv, store := testServer(t)
	raw := []byte{0x89, 0x50, 0x4e, 0x47}

	r := callTool(t, srv, "upload_picture", map[string]interface{}{
		"path":    "a/pic.png",
		"content": base64.StdEncoding.EncodeToString(raw),
	})
	if r.IsError {
		t.Fatalf("upload failed: %s", resultText(r))
	}
	links := resultLinks(r)
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	l := links[0]
	if l.URI != "img://a/pic.png" {
		t.Errorf("URI = %q", l.URI)
	}
	if l.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", l.MIMEType)
	}
	if l.Description != "Picture" {
		t.Errorf("Description = %q", l.Description)
	}

	saved, err := os.ReadFile(filepath.Join(store.Root(), "a", "pic.png"))
	if err != nil {
		t.Fatalf("read saved picture: %v", err)
	}
	if !bytes.Equal(saved, raw) {
		t.Errorf("saved bytes = %v, want %v", saved, raw)
	}
}

func TestUploadPictureUnsupportedExtension(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "upload_picture", map[string]interface{}{
		"path":    "pic.exe",
		"content": base64.StdEncoding.EncodeToString([]byte{0x4d, 0x5a}),
	})
	if !r.IsError {
		t.Error("expected error for .exe upload")
	}
}

func TestDecodePictureContent(t *testing.T) {
	raw := []byte{0x47, 0x49, 0x46}

	if got := decodePictureContent(base64.StdEncoding.EncodeToString(raw)); !bytes.Equal(got, raw) {
		t.Errorf("std decode = %v", got)
	}
	if got := decodePictureContent(base64.RawStdEncoding.EncodeToString(raw)); !bytes.Equal(got, raw) {
		t.Errorf("raw decode = %v", got)
	}
	// Not base64 at all: stored verbatim.
	if got := decodePictureContent("???not-base64???"); string(got) != "???not-base64???" {
		t.Errorf("fallback = %q", got)
	}
}
