package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrAlreadyExists is returned when saving under a name that is taken.
	// Uploads are never overwritten silently.
	ErrAlreadyExists = errors.New("file already exists")

	// ErrInvalidPath is returned for paths escaping the storage root.
	ErrInvalidPath = errors.New("invalid file path")
)

// MediaStore serves static assets and stores uploaded media on the local
// filesystem. Rows reference files by path relative to the media root.
type MediaStore struct {
	mediaRoot  string
	staticRoot string
}

func NewMediaStore(mediaRoot, staticRoot string, subdirs []string) (*MediaStore, error) {
	for _, dir := range append([]string{""}, subdirs...) {
		if err := os.MkdirAll(filepath.Join(mediaRoot, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media dir: %w", err)
		}
	}
	if err := os.MkdirAll(staticRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create static dir: %w", err)
	}
	return &MediaStore{mediaRoot: mediaRoot, staticRoot: staticRoot}, nil
}

// MediaPath resolves a relative media path to an absolute one, rejecting
// anything that escapes the media root.
func (s *MediaStore) MediaPath(rel string) (string, error) {
	return securePath(s.mediaRoot, rel)
}

// StaticPath resolves a relative static path to an absolute one.
func (s *MediaStore) StaticPath(rel string) (string, error) {
	return securePath(s.staticRoot, rel)
}

// Save writes an uploaded file under dir/name and returns the path
// relative to the media root.
func (s *MediaStore) Save(dir, name string, r io.Reader) (string, error) {
	rel := filepath.Join(dir, filepath.Base(name))
	abs, err := securePath(s.mediaRoot, rel)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Exists reports whether a media file is present.
func (s *MediaStore) Exists(rel string) bool {
	abs, err := securePath(s.mediaRoot, rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func securePath(root, rel string) (string, error) {
	rel = strings.TrimPrefix(rel, "/")
	abs := filepath.Join(root, filepath.FromSlash(rel))

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %w", err)
	}
	pathAbs, err := filepath.Abs(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if pathAbs != rootAbs && !strings.HasPrefix(pathAbs, rootAbs+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return pathAbs, nil
}
