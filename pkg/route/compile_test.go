package route

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompileFusesPaths(t *testing.T) {
	table, err := Compile([]*Definition{
		{Path: "users", Children: []*Definition{
			{Path: ""},
			{Path: ":id"},
		}},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{"users", "users/:id"}
	if got := table.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestCompileEmptyChildrenIsLeaf(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "/about", Children: []*Definition{}},
		{Path: "/users", Children: []*Definition{{Path: ":id"}}},
	})

	want := []string{"/about", "/users/:id"}
	if got := table.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	if _, err := table.MatchURL("/about"); err != nil {
		t.Errorf("MatchURL(/about) error = %v", err)
	}
}

func TestCompileDepthFirstOrder(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "/a", Children: []*Definition{
			{Path: "x", Children: []*Definition{{Path: "1"}, {Path: "2"}}},
			{Path: "y"},
		}},
		{Path: "/b"},
	})

	want := []string{"/a/x/1", "/a/x/2", "/a/y", "/b"}
	if got := table.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestCompileChains(t *testing.T) {
	users := &Definition{Path: "/users", Name: "users"}
	index := &Definition{Path: ""}
	detail := &Definition{Path: ":id", Name: "user-detail"}
	users.Children = []*Definition{index, detail}

	table := MustCompile([]*Definition{users})
	entries := table.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	if got := entries[0].Routes; len(got) != 2 || got[0] != users || got[1] != index {
		t.Errorf("index chain = %v", got)
	}
	if got := entries[1].Routes; len(got) != 2 || got[0] != users || got[1] != detail {
		t.Errorf("detail chain = %v", got)
	}
	if entries[0].URL != "" || entries[0].Params != nil {
		t.Error("table entries must not carry match data")
	}
}

func TestCompileLastNameWins(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "/users", Name: "users", Children: []*Definition{
			{Path: ""},
			{Path: ":id", Name: "user-detail"},
		}},
	})

	entries := table.Entries()
	if entries[0].Name != "users" {
		t.Errorf("index name = %q, want %q", entries[0].Name, "users")
	}
	if entries[1].Name != "user-detail" {
		t.Errorf("detail name = %q, want %q", entries[1].Name, "user-detail")
	}
}

func TestCompileDuplicatePath(t *testing.T) {
	_, err := Compile([]*Definition{
		{Path: "/a"},
		{Path: "/a"},
	})

	var dup *DuplicateRouteError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want *DuplicateRouteError", err)
	}
	if dup.Identifier != "path" || dup.Value != "/a" {
		t.Errorf("got (%q, %q), want (path, /a)", dup.Identifier, dup.Value)
	}
	if !errors.Is(err, ErrDuplicateRoute) {
		t.Error("errors.Is(err, ErrDuplicateRoute) = false")
	}
}

func TestCompileDuplicateFusedPath(t *testing.T) {
	// An index child fuses to its parent's path.
	_, err := Compile([]*Definition{
		{Path: "/a", Children: []*Definition{{Path: ""}}},
		{Path: "/a/"},
	})

	var dup *DuplicateRouteError
	if !errors.As(err, &dup) || dup.Value != "/a" {
		t.Fatalf("err = %v, want duplicate path /a", err)
	}
}

func TestCompileDuplicateName(t *testing.T) {
	_, err := Compile([]*Definition{
		{Path: "/a", Name: "x"},
		{Path: "/b", Name: "x"},
	})

	var dup *DuplicateRouteError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want *DuplicateRouteError", err)
	}
	if dup.Identifier != "name" || dup.Value != "x" {
		t.Errorf("got (%q, %q), want (name, x)", dup.Identifier, dup.Value)
	}
}

func TestCompilePathDuplicateReportedFirst(t *testing.T) {
	_, err := Compile([]*Definition{
		{Path: "/a", Name: "x"},
		{Path: "/b", Name: "x"},
		{Path: "/b"},
	})

	var dup *DuplicateRouteError
	if !errors.As(err, &dup) || dup.Identifier != "path" || dup.Value != "/b" {
		t.Fatalf("err = %v, want duplicate path /b", err)
	}
}

func TestCompileUnnamedEntriesNeverClash(t *testing.T) {
	if _, err := Compile([]*Definition{{Path: "/a"}, {Path: "/b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on duplicates")
		}
	}()
	MustCompile([]*Definition{{Path: "/a"}, {Path: "/a"}})
}

func TestTableLookup(t *testing.T) {
	table := MustCompile([]*Definition{{Path: "/a", Name: "a"}})
	if e, ok := table.Lookup("/a"); !ok || e.Name != "a" {
		t.Errorf("Lookup(/a) = %+v, %v", e, ok)
	}
	if _, ok := table.Lookup("/missing"); ok {
		t.Error("Lookup(/missing) should fail")
	}
}

func TestNormalizedFragments(t *testing.T) {
	parent := &Definition{Path: "/p"}
	child := &Definition{Path: "c"}
	n := &Normalized{Routes: []*Definition{parent, child}}

	if n.Fragment(0) != parent || n.Fragment(1) != child || n.Fragment(2) != nil {
		t.Error("Fragment() returned unexpected definitions")
	}
	if got := n.Below(1); len(got) != 1 || got[0] != child {
		t.Errorf("Below(1) = %v", got)
	}
	if n.Below(5) != nil {
		t.Error("Below past the chain should be nil")
	}
	if n.Leaf() != child {
		t.Error("Leaf() should be the last definition")
	}

	var none *Normalized
	if none.Fragment(0) != nil || none.Leaf() != nil {
		t.Error("nil route has no fragments")
	}
}

func TestModuleConstructor(t *testing.T) {
	ctor := Constructor(func() any { return "page" })
	m := Module{
		{Name: "helper", Value: 42},
		{Name: "Page", Value: ctor},
		{Name: "Other", Value: func() any { return "other" }},
	}
	got, ok := m.Constructor()
	if !ok {
		t.Fatal("expected a constructor")
	}
	if got() != "page" {
		t.Errorf("first constructor not selected")
	}

	if _, ok := (Module{{Name: "x", Value: "y"}}).Constructor(); ok {
		t.Error("module without constructors should report false")
	}
}

func TestComponentKinds(t *testing.T) {
	s := Sync(func() any { return nil })
	if s.Kind() != KindSync || s.Constructor() == nil || s.Loader() != nil {
		t.Error("Sync component malformed")
	}
	a := Async(nil)
	if a.Kind() != KindAsync || a.Constructor() != nil {
		t.Error("Async component malformed")
	}
	if KindAsync.String() != "async" || Kind(9).String() != "Kind(9)" {
		t.Error("Kind.String mismatch")
	}
}
