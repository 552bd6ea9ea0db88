package media

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// media buckets the upload endpoint accepts as the first path segment
var allowedBuckets = map[string]struct{}{
	"image":      {},
	"attachment": {},
	"avatar":     {},
}

// buildFileName generates a collision-resistant filename that keeps the
// original extension.
func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// normalizeBucket lower-cases and validates the bucket segment.
func normalizeBucket(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedBuckets[raw]; !ok {
		return ""
	}
	return raw
}

// safeName returns the base name of raw only when it is a plain
// filename with no path tricks.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}

// detectContentType sniffs the MIME type from the header value, the
// extension, or the payload bytes, in that order.
func detectContentType(filename string, payload []byte, fallback string) string {
	contentType := strings.TrimSpace(fallback)
	if contentType != "" {
		return contentType
	}
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}
