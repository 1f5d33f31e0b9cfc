package route

import "github.com/vango-dev/outlet/pkg/routepath"

// Table is the compiled, ordered set of leaf routes.
type Table struct {
	entries []Normalized
	byPath  map[string]int
}

// Compile flattens a route tree into a table.
//
// Entries appear in depth-first declaration order. Two entries with the same
// path, or two named entries with the same name, fail compilation with a
// *DuplicateRouteError; path duplicates are reported first.
func Compile(defs []*Definition) (*Table, error) {
	entries := fuse(defs, nil, "", nil)
	for i := range entries {
		entries[i].Name = lastName(entries[i].Routes)
	}

	dupPaths := duplicates(entries, func(n *Normalized) (string, bool) {
		return n.Path, true
	})
	dupNames := duplicates(entries, func(n *Normalized) (string, bool) {
		return n.Name, n.Name != ""
	})
	if len(dupPaths) > 0 {
		return nil, &DuplicateRouteError{Identifier: "path", Value: dupPaths[0]}
	}
	if len(dupNames) > 0 {
		return nil, &DuplicateRouteError{Identifier: "name", Value: dupNames[0]}
	}

	t := &Table{
		entries: entries,
		byPath:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		t.byPath[e.Path] = i
	}
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(defs []*Definition) *Table {
	t, err := Compile(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// fuse walks the tree depth-first, accumulating paths and ancestor chains.
func fuse(defs []*Definition, chain []*Definition, path string, out []Normalized) []Normalized {
	for _, def := range defs {
		if def == nil {
			continue
		}
		fused := routepath.Join(path, def.Path)

		// Copy the chain so sibling subtrees never share a backing array.
		next := make([]*Definition, len(chain)+1)
		copy(next, chain)
		next[len(chain)] = def

		if len(def.Children) > 0 {
			out = fuse(def.Children, next, fused, out)
			continue
		}
		out = append(out, Normalized{Path: fused, Routes: next})
	}
	return out
}

// lastName keeps the deepest non-empty name of the chain.
func lastName(chain []*Definition) string {
	var name string
	for _, def := range chain {
		if def.Name != "" {
			name = def.Name
		}
	}
	return name
}

// duplicates returns, in table order, every key seen more than once.
// Each repeated occurrence is reported.
func duplicates(entries []Normalized, key func(*Normalized) (string, bool)) []string {
	if len(entries) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	var dups []string
	for i := range entries {
		k, ok := key(&entries[i])
		if !ok {
			continue
		}
		if _, exists := seen[k]; exists {
			dups = append(dups, k)
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the entries in table order. The slice is a copy; the
// definitions it references are shared and must not be modified.
func (t *Table) Entries() []Normalized {
	if t == nil {
		return nil
	}
	out := make([]Normalized, len(t.entries))
	copy(out, t.entries)
	return out
}

// Paths returns every entry path in table order.
func (t *Table) Paths() []string {
	if t == nil {
		return nil
	}
	paths := make([]string, len(t.entries))
	for i, e := range t.entries {
		paths[i] = e.Path
	}
	return paths
}

// Lookup returns the entry with exactly this fused path.
func (t *Table) Lookup(path string) (Normalized, bool) {
	if t == nil {
		return Normalized{}, false
	}
	i, ok := t.byPath[path]
	if !ok {
		return Normalized{}, false
	}
	return t.entries[i], true
}
