package mcpserver

import (
	"context"
	"encoding/base64"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/vault"
)

func (s *Server) uploadPicture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logical, err := s.vault.SavePicture(path, decodePictureContent(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mime, _ := vault.PictureMIMEType(logical)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewResourceLink(pictureURI(logical), logical, "Picture", mime),
		},
	}, nil
}

// decodePictureContent interprets the content parameter as standard
// base64, tolerating missing padding. Content that is not base64 at all
// is stored as-is.
func decodePictureContent(content string) []byte {
	if data, err := base64.StdEncoding.DecodeString(content); err == nil {
		return data
	}
	if data, err := base64.RawStdEncoding.DecodeString(content); err == nil {
		return data
	}
	return []byte(content)
}
