package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

// ObjectStore persists uploaded binaries and returns a retrievable URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._\-/]+`)

// SanitizeKey normalises an object key: no traversal, no leading slash, safe characters only.
func SanitizeKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	key = unsafeKeyChars.ReplaceAllString(key, "_")
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("empty object key")
	}
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}
	return cleaned, nil
}
