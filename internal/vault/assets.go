package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
)

// pictureMIMETypes is the extension allow-list for picture uploads.
// Matching is case-sensitive: logical paths are identifiers, not
// filesystem lookups.
var pictureMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// PictureMIMEType returns the MIME type for the picture at path, derived
// from its extension, and whether the extension is allowed.
func PictureMIMEType(path string) (string, bool) {
	mime, ok := pictureMIMETypes[filepath.Ext(path)]
	return mime, ok
}

// PictureExtensions returns the allowed picture extensions, sorted, for
// use in user-facing messages.
func PictureExtensions() []string {
	return []string{".gif", ".jpeg", ".jpg", ".png"}
}

// SavePicture writes data to the picture at path, overwriting any
// existing file and creating missing parent directories. The extension
// must be on the allow-list. Returns the normalized logical path.
func (s *Store) SavePicture(path string, data []byte) (string, error) {
	logical := strings.TrimLeft(path, "/"+string(os.PathSeparator))
	abs, err := s.confine(logical)
	if err != nil {
		return "", err
	}
	if _, ok := PictureMIMEType(logical); !ok {
		return "", fmt.Errorf("vault: picture %q: %w (supported: %s)",
			logical, apperr.ErrUnsupportedExtension, strings.Join(PictureExtensions(), ", "))
	}
	if err := s.writeFile(abs, data); err != nil {
		return "", err
	}
	s.log.Info("uploaded a picture", slog.String("path", logical), slog.Int("bytes", len(data)))
	return logical, nil
}
