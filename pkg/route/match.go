package route

import (
	"regexp"
	"strings"

	"github.com/vango-dev/outlet/pkg/routepath"
)

// Match resolves a query against the table.
func (t *Table) Match(q Query) (*Normalized, error) {
	if q.IsURL() {
		return t.MatchURL(q.URL)
	}
	return t.MatchName(q.Name, q.Params)
}

// MatchURL resolves a URL. The query string is ignored for matching but
// kept in the result's URL.
//
// A segment that is not valid percent-encoding fails only the entry that
// needs to decode it (a ":name" or "*" binding); matching continues with
// later entries, and literal segments still compare undecoded.
func (t *Table) MatchURL(url string) (*Normalized, error) {
	if t != nil {
		pathname, _ := routepath.SplitPathAndQuery(url)
		query := routepath.Segments(pathname)
		root := routepath.IsRoot(pathname)

		for i := range t.entries {
			e := &t.entries[i]
			if params, ok := matchSegments(query, routepath.Segments(e.Path), root); ok {
				return e.resolved(url, params), nil
			}
		}
	}
	return nil, &UnknownURLError{URL: url, Known: t.Paths()}
}

// matchSegments compares query segments against route segments.
// A "*" route segment captures the remaining query segments. On the root
// query, dynamic segments compare literally and so never match: a table
// of only ":id" does not resolve "/" (no empty-valued binding).
func matchSegments(query, segments []string, root bool) (Params, bool) {
	params := Params{}
	n := max(len(query), len(segments))

	for i := 0; i < n; i++ {
		var seg string
		hasSeg := i < len(segments)
		if hasSeg {
			seg = segments[i]
		}

		if hasSeg && seg == routepath.CatchAll {
			rest, err := routepath.DecodeSegments(query[min(i, len(query)):])
			if err != nil {
				return nil, false
			}
			params[routepath.CatchAll] = rest
			return params, true
		}

		if i >= len(query) {
			return nil, false
		}

		if name, ok := routepath.ParamName(seg); ok && !root {
			value, err := routepath.DecodeSegment(query[i])
			if err != nil {
				return nil, false
			}
			params[name] = value
			continue
		}

		if !hasSeg || seg != query[i] {
			return nil, false
		}
	}
	return params, true
}

// MatchName resolves a route by name.
//
// Candidates are the entries whose chain contains a definition with the
// name, in table order. With nil params the first candidate wins and its
// URL is its own path. Otherwise params are substituted into each
// candidate's path and the first substituted path that satisfies the
// candidate's pattern wins.
func (t *Table) MatchName(name string, params Params) (*Normalized, error) {
	if t == nil {
		return nil, &UnknownNameError{Name: name}
	}

	var candidates []*Normalized
	for i := range t.entries {
		if chainHasName(t.entries[i].Routes, name) {
			candidates = append(candidates, &t.entries[i])
		}
	}

	if params == nil {
		if len(candidates) == 0 {
			return nil, &UnknownNameError{Name: name}
		}
		c := candidates[0]
		return c.resolved(c.Path, nil), nil
	}

	for _, c := range candidates {
		p := compilePattern(c.Path)
		substituted, ok := p.substitute(params)
		if !ok {
			continue
		}
		m := p.re.FindStringSubmatch(substituted)
		if m == nil {
			continue
		}
		captured := make(Params, len(p.names))
		for i, key := range p.names {
			captured[key] = m[i+1]
		}
		return c.resolved(m[0], captured), nil
	}
	return nil, &UnknownNameError{Name: name}
}

func chainHasName(chain []*Definition, name string) bool {
	for _, def := range chain {
		if def.Name == name {
			return true
		}
	}
	return false
}

// pathPattern is a route path turned into a capturing regexp.
type pathPattern struct {
	segments []string
	names    []string
	re       *regexp.Regexp
}

func compilePattern(path string) pathPattern {
	p := pathPattern{segments: strings.Split(routepath.Clean(path), "/")}
	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		switch name, ok := routepath.ParamName(seg); {
		case ok:
			p.names = append(p.names, name)
			parts[i] = `([^/]+)`
		case seg == routepath.CatchAll:
			p.names = append(p.names, routepath.CatchAll)
			parts[i] = `(.*)`
		default:
			parts[i] = regexp.QuoteMeta(seg)
		}
	}
	p.re = regexp.MustCompile("^" + strings.Join(parts, "/") + "$")
	return p
}

// substitute replaces the dynamic segments with their values. It reports
// false when a ":name" segment has no value. The catch-all may be omitted
// and then matches the empty remainder.
func (p pathPattern) substitute(params Params) (string, bool) {
	out := make([]string, len(p.segments))
	for i, seg := range p.segments {
		out[i] = seg
		if name, ok := routepath.ParamName(seg); ok {
			v, ok := params[name]
			if !ok {
				return "", false
			}
			out[i] = v
		} else if seg == routepath.CatchAll {
			out[i] = params[routepath.CatchAll]
		}
	}
	return strings.Join(out, "/"), true
}
