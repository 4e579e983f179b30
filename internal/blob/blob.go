// ABOUTME: Object storage interface for uploaded post images
// ABOUTME: Defines the Store contract and the key naming scheme for uploads

package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store uploads an object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
}

// PostImageKey builds the storage key for an uploaded post image:
// posts/<unix-ms>_<sanitized-filename>. Filenames that sanitize to nothing
// get a uuid instead.
func PostImageKey(filename string, now time.Time) string {
	name := sanitizeFilename(filename)
	if name == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("posts/%d_%s", now.UnixMilli(), name)
}

// sanitizeFilename strips path separators and characters that are unsafe in
// object keys, keeping letters, digits, dots, dashes, and underscores.
func sanitizeFilename(name string) string {
	// Drop any client-supplied directory components
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
