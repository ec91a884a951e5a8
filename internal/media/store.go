// Package media persists picked images into the application's durable
// storage directory.
//
// Picker-provided source paths are transient (they point into a cache that
// may be cleared at any time); SaveCopy turns one into a stable path inside
// the media directory. Every caller treats a SaveCopy failure as "store the
// record without an image" — it is never a fatal error.
package media

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fallbackName is used when no file name can be derived from the source path.
const fallbackName = "img.jpg"

// Store copies image files into a durable directory it owns.
type Store struct {
	dir string
}

// NewStore creates a media store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveCopy copies the file at src into the media directory and returns the
// new stable path. The destination name is derived from the source base
// name; when two sources share a base name the copy gets a uniquified name
// instead of clobbering the earlier file. An empty src yields ("", nil).
func (s *Store) SaveCopy(src string) (string, error) {
	if src == "" {
		return "", nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source image: %w", err)
	}
	defer in.Close()

	dest := filepath.Join(s.dir, s.destName(filepath.Base(src)))

	// Temp file in the same directory so the final rename is atomic.
	tmp, err := os.CreateTemp(s.dir, "media_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return "", fmt.Errorf("copy image bytes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("flush image: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("move image into media dir: %w", err)
	}

	return dest, nil
}

// Dir returns the media directory path.
func (s *Store) Dir() string {
	return s.dir
}

// destName derives a destination file name from a source base name.
func (s *Store) destName(base string) string {
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = fallbackName
	}

	if _, err := os.Stat(filepath.Join(s.dir, base)); err != nil {
		return base
	}

	// Name taken by an earlier copy: prepend a random prefix.
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err == nil {
		return hex.EncodeToString(suffix) + "_" + base
	}
	return strings.TrimSuffix(fallbackName, filepath.Ext(fallbackName)) + "_" + base
}
