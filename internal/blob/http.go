// ABOUTME: HTTP-backed object store client for S3-compatible storage APIs
// ABOUTME: Uploads objects with a bearer key and derives their public URLs

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPStore uploads objects to a storage service over its REST API
// (Supabase storage and S3-compatible gateways share this shape:
// POST <endpoint>/<bucket>/<key> with the object body, objects later
// served from a public base URL).
type HTTPStore struct {
	endpoint      string // upload API base, e.g. https://xyz.supabase.co/storage/v1/object
	bucket        string
	apiKey        string
	publicBaseURL string // public serving base, e.g. https://xyz.supabase.co/storage/v1/object/public
	client        *http.Client
	logger        *slog.Logger
}

// NewHTTPStore creates a store that uploads to endpoint/bucket/<key> and
// reports public URLs under publicBaseURL/bucket/<key>.
func NewHTTPStore(endpoint, bucket, apiKey, publicBaseURL string) *HTTPStore {
	return &HTTPStore{
		endpoint:      strings.TrimRight(endpoint, "/"),
		bucket:        bucket,
		apiKey:        apiKey,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        slog.Default().With("component", "blob"),
	}
}

// Put uploads the object and returns its public URL.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	uploadURL := s.endpoint + "/" + s.bucket + "/" + escapeKey(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	publicURL := s.publicBaseURL + "/" + s.bucket + "/" + escapeKey(key)
	s.logger.Debug("uploaded object", "key", key, "bytes", len(data), "url", publicURL)
	return publicURL, nil
}

// escapeKey escapes each path segment of a key while keeping the slashes.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
