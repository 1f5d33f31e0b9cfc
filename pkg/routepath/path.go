package routepath

import (
	"errors"
	"net/url"
	"strings"
)

const (
	// ParamPrefix marks a dynamic segment (":id").
	ParamPrefix = ":"

	// CatchAll is the segment that consumes the rest of a path.
	CatchAll = "*"
)

// ErrInvalidPercentEscape is returned when a segment cannot be decoded.
var ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")

// Join fuses an accumulated parent path with a child path.
// An empty parent yields the child; an empty child keeps the parent, which
// is how index and pass-through routes inherit their parent's path.
func Join(parent, child string) string {
	var joined string
	switch {
	case parent == "":
		joined = child
	case child == "":
		joined = parent
	default:
		joined = parent + "/" + child
	}
	return Clean(joined)
}

// Clean collapses repeated slashes and strips a trailing slash unless the
// whole path is "/".
func Clean(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// Segments strips leading and trailing slashes and splits on "/".
// The result is never empty: "" and "/" both yield [""].
func Segments(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// IsRoot reports whether a path segments to the single empty root segment.
func IsRoot(path string) bool {
	return strings.Trim(path, "/") == ""
}

// ParamName returns the parameter name of a ":name" segment.
func ParamName(segment string) (string, bool) {
	if len(segment) < 2 || !strings.HasPrefix(segment, ParamPrefix) {
		return "", false
	}
	return segment[1:], true
}

// SplitPathAndQuery splits a URL into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// DecodeSegment decodes a single percent-encoded path segment.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	return decoded, nil
}

// DecodeSegments decodes every segment and joins them with "/".
// Used for catch-all values, where the separators are part of the value.
func DecodeSegments(segments []string) (string, error) {
	decoded := make([]string, 0, len(segments))
	for _, seg := range segments {
		d, err := DecodeSegment(seg)
		if err != nil {
			return "", err
		}
		decoded = append(decoded, d)
	}
	return strings.Join(decoded, "/"), nil
}
