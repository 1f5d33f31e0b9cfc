package routepath

import (
	"errors"
	"strings"
)

// Navigation path errors.
var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
)

// ValidateNavPath checks a navigation target received from an untrusted
// source (a browser frame or an HTTP request) before it is matched.
//
// Targets MUST be relative paths: full URLs and protocol-relative URLs are
// rejected, as are backslashes and NUL bytes. The returned path keeps its
// query string; only the path part is cleaned.
func ValidateNavPath(target string) (string, error) {
	if strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(target, "/") {
		return "", ErrInvalidPath
	}

	path, query, hasQuery := strings.Cut(target, "?")
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	for _, seg := range Segments(path) {
		if _, err := DecodeSegment(seg); err != nil {
			return "", err
		}
	}

	path = Clean(path)
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
