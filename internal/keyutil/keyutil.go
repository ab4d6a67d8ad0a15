// Package keyutil normalises object keys and prefixes for the object stores.
package keyutil

import (
	"path"
	"strings"
)

// NormalizePrefix converts backslashes, cleans the path and strips leading
// and trailing slashes. Returns "" for an empty or "." prefix.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}

	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = path.Clean(prefix)
	prefix = strings.Trim(prefix, "/")
	if prefix == "." {
		return ""
	}

	return prefix
}

// Join joins a normalised prefix with an object key.
// The key is used verbatim apart from a leading slash.
func Join(prefix, key string) string {
	key = strings.TrimPrefix(key, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// Valid reports whether key can be stored: non-empty, no "." or ".."
// segments and no empty segments.
func Valid(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return false
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
