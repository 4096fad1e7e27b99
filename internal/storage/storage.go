// Package storage isolates photo persistence behind a narrow interface
// so the rest of the application never touches the filesystem directly.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage stores member photos and resolves stored paths to URLs.
type Storage interface {
	Store(data []byte, memberID int64, ext string) (string, error)
	Resolve(path string) string
}

type fsStorage struct {
	dir     string
	baseURL string
}

// NewFSStorage stores photos under dir and resolves them relative to
// baseURL (the route the directory is served from, e.g. "/uploads").
func NewFSStorage(dir, baseURL string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &fsStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *fsStorage) Store(data []byte, memberID int64, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpg", "jpeg", "png", "webp":
	default:
		ext = "jpg"
	}
	name := fmt.Sprintf("membro_%d_%d.%s", memberID, time.Now().Unix(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return name, nil
}

func (s *fsStorage) Resolve(path string) string {
	if path == "" {
		return ""
	}
	return s.baseURL + "/" + path
}
