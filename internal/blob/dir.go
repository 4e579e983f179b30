// ABOUTME: Filesystem-backed object store for development and tests
// ABOUTME: Writes objects under a local directory and serves them from a base URL

package blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DirStore writes objects under a local directory. The public URL is
// baseURL/<key>; serving those files is the deployment's concern (any static
// file server over the directory will do).
type DirStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewDirStore creates a store rooted at dir, creating it if needed.
func NewDirStore(dir, baseURL string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DirStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default().With("component", "blob"),
	}, nil
}

// Put writes the object to disk and returns its public URL.
// The content type is recorded nowhere; extension-based detection is enough
// for a static file server.
func (s *DirStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}

	publicURL := s.baseURL + "/" + key
	s.logger.Debug("stored object", "key", key, "bytes", len(data), "path", path)
	return publicURL, nil
}
