package route

import (
	"errors"
	"reflect"
	"testing"
)

func appTable(t *testing.T) *Table {
	t.Helper()
	table, err := Compile([]*Definition{
		{Path: "/", Name: "home"},
		{Path: "/users", Name: "users", Children: []*Definition{
			{Path: ""},
			{Path: ":id", Name: "user-detail"},
		}},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return table
}

func TestMatchURLEndToEnd(t *testing.T) {
	r, err := appTable(t).Match(URL("/users/5"))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if r.Path != "/users/:id" {
		t.Errorf("Path = %q, want %q", r.Path, "/users/:id")
	}
	if r.Name != "user-detail" {
		t.Errorf("Name = %q, want %q", r.Name, "user-detail")
	}
	if !reflect.DeepEqual(r.Params, Params{"id": "5"}) {
		t.Errorf("Params = %v, want map[id:5]", r.Params)
	}
	if r.URL != "/users/5" {
		t.Errorf("URL = %q, want %q", r.URL, "/users/5")
	}
}

func TestMatchURL(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "users", Children: []*Definition{
			{Path: ""},
			{Path: ":id"},
		}},
		{Path: "files/*"},
		{Path: "/"},
	})

	tests := []struct {
		name     string
		url      string
		wantPath string
		want     Params
	}{
		{name: "index", url: "/users", wantPath: "users", want: Params{}},
		{name: "trailing slash", url: "/users/", wantPath: "users", want: Params{}},
		{name: "dynamic", url: "/users/42", wantPath: "users/:id", want: Params{"id": "42"}},
		{name: "query ignored", url: "/users/42?tab=posts", wantPath: "users/:id", want: Params{"id": "42"}},
		{name: "decoded param", url: "/users/john%20doe", wantPath: "users/:id", want: Params{"id": "john doe"}},
		{name: "catch all", url: "/files/a/b%20c", wantPath: "files/*", want: Params{"*": "a/b c"}},
		{name: "catch all empty", url: "/files", wantPath: "files/*", want: Params{"*": ""}},
		{name: "root", url: "/", wantPath: "/", want: Params{}},
		{name: "empty url is root", url: "", wantPath: "/", want: Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := table.MatchURL(tt.url)
			if err != nil {
				t.Fatalf("MatchURL(%q) error = %v", tt.url, err)
			}
			if r.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", r.Path, tt.wantPath)
			}
			if !reflect.DeepEqual(r.Params, tt.want) {
				t.Errorf("Params = %v, want %v", r.Params, tt.want)
			}
			if r.URL != tt.url {
				t.Errorf("URL = %q, want %q", r.URL, tt.url)
			}
		})
	}
}

func TestMatchURLUnknown(t *testing.T) {
	table := appTable(t)
	for _, url := range []string{"/nope", "/users/5/extra", "/users/5/6"} {
		_, err := table.MatchURL(url)
		var unknown *UnknownURLError
		if !errors.As(err, &unknown) {
			t.Fatalf("MatchURL(%q) err = %v, want *UnknownURLError", url, err)
		}
		if unknown.URL != url {
			t.Errorf("URL = %q, want %q", unknown.URL, url)
		}
		if !errors.Is(err, ErrUnknownURL) {
			t.Error("errors.Is(err, ErrUnknownURL) = false")
		}
	}
}

func TestMatchURLInvalidEscapeMisses(t *testing.T) {
	table := MustCompile([]*Definition{{Path: "/users/:id"}})
	if _, err := table.MatchURL("/users/%zz"); !errors.Is(err, ErrUnknownURL) {
		t.Errorf("err = %v, want ErrUnknownURL", err)
	}
}

func TestMatchURLInvalidEscapeFallsThrough(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "/:id", Name: "param"},
		{Path: "/%zz", Name: "literal"},
		{Path: "*", Name: "fallback"},
	})

	r, err := table.MatchURL("/%zz")
	if err != nil {
		t.Fatalf("MatchURL() error = %v", err)
	}
	if r.Name != "literal" {
		t.Errorf("Name = %q, want literal", r.Name)
	}

	// The catch-all decodes its capture, so it misses as well.
	if _, err := table.MatchURL("/a/%zz"); !errors.Is(err, ErrUnknownURL) {
		t.Errorf("err = %v, want ErrUnknownURL", err)
	}
}

func TestMatchURLRootWithOnlyDynamicEntry(t *testing.T) {
	table := MustCompile([]*Definition{{Path: ":id"}})
	if _, err := table.MatchURL("/"); !errors.Is(err, ErrUnknownURL) {
		t.Errorf("err = %v, want ErrUnknownURL", err)
	}
}

func TestMatchURLDeclarationOrderWins(t *testing.T) {
	specificFirst := MustCompile([]*Definition{
		{Path: "/users/:id", Name: "user"},
		{Path: "*", Name: "fallback"},
	})
	r, err := specificFirst.MatchURL("/users/42")
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "user" {
		t.Errorf("Name = %q, want user", r.Name)
	}

	wildcardFirst := MustCompile([]*Definition{
		{Path: "*", Name: "fallback"},
		{Path: "/users/:id", Name: "user"},
	})
	r, err = wildcardFirst.MatchURL("/users/42")
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "fallback" {
		t.Errorf("Name = %q, want fallback", r.Name)
	}
	if r.Params["*"] != "users/42" {
		t.Errorf("Params[*] = %q, want users/42", r.Params["*"])
	}
}

func TestMatchURLRootNeverBindsDynamicSegment(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: ":slug"},
		{Path: "/", Name: "home"},
	})

	r, err := table.MatchURL("/")
	if err != nil {
		t.Fatal(err)
	}
	if r.Name != "home" {
		t.Errorf("root matched %q, want home", r.Path)
	}

	r, err = table.MatchURL("/about")
	if err != nil {
		t.Fatal(err)
	}
	if r.Path != ":slug" || r.Params["slug"] != "about" {
		t.Errorf("got %q %v", r.Path, r.Params)
	}
}

func TestMatchReturnsFreshSnapshots(t *testing.T) {
	table := appTable(t)

	first, err := table.MatchURL("/users/1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := table.MatchURL("/users/2")
	if err != nil {
		t.Fatal(err)
	}

	if first.Path != second.Path || first.Name != second.Name {
		t.Error("same URL shape should resolve to the same path and name")
	}
	if first.Params["id"] != "1" || second.Params["id"] != "2" {
		t.Errorf("params leaked between snapshots: %v %v", first.Params, second.Params)
	}
	entry, _ := table.Lookup("/users/:id")
	if entry.Params != nil || entry.URL != "" {
		t.Error("matching must not mutate table entries")
	}
}

func TestMatchNameWithParams(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "users/:id", Name: "users"},
	})

	r, err := table.Match(Named("users", Params{"id": "7"}))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if r.URL != "users/7" {
		t.Errorf("URL = %q, want %q", r.URL, "users/7")
	}
	if !reflect.DeepEqual(r.Params, Params{"id": "7"}) {
		t.Errorf("Params = %v", r.Params)
	}
}

func TestMatchNameWithoutParams(t *testing.T) {
	r, err := appTable(t).Match(Named("users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if r.Path != "/users" || r.URL != "/users" {
		t.Errorf("got path %q url %q, want /users", r.Path, r.URL)
	}
	if r.Params != nil {
		t.Errorf("Params = %v, want nil", r.Params)
	}
}

func TestMatchNameInheritedFromAncestor(t *testing.T) {
	r, err := appTable(t).Match(Named("user-detail", Params{"id": "9"}))
	if err != nil {
		t.Fatal(err)
	}
	if r.URL != "/users/9" || r.Path != "/users/:id" {
		t.Errorf("got url %q path %q", r.URL, r.Path)
	}
}

func TestMatchNameSkipsUnsatisfiedCandidates(t *testing.T) {
	table := MustCompile([]*Definition{
		{Path: "/docs", Name: "docs", Children: []*Definition{
			{Path: ":section/:page"},
			{Path: ":section"},
		}},
	})

	r, err := table.MatchName("docs", Params{"section": "intro"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Path != "/docs/:section" || r.URL != "/docs/intro" {
		t.Errorf("got path %q url %q", r.Path, r.URL)
	}

	r, err = table.MatchName("docs", Params{"section": "intro", "page": "setup"})
	if err != nil {
		t.Fatal(err)
	}
	if r.URL != "/docs/intro/setup" {
		t.Errorf("URL = %q", r.URL)
	}
}

func TestMatchNameRejectsSlashInValue(t *testing.T) {
	table := MustCompile([]*Definition{{Path: "/users/:id", Name: "user"}})
	if _, err := table.MatchName("user", Params{"id": "a/b"}); !errors.Is(err, ErrUnknownName) {
		t.Errorf("err = %v, want ErrUnknownName", err)
	}
}

func TestMatchNameCatchAll(t *testing.T) {
	table := MustCompile([]*Definition{{Path: "/files/*", Name: "files"}})
	r, err := table.MatchName("files", Params{"*": "a/b"})
	if err != nil {
		t.Fatal(err)
	}
	if r.URL != "/files/a/b" || r.Params["*"] != "a/b" {
		t.Errorf("got url %q params %v", r.URL, r.Params)
	}
}

func TestMatchNameUnknown(t *testing.T) {
	table := appTable(t)

	_, err := table.Match(Named("missing", nil))
	var unknown *UnknownNameError
	if !errors.As(err, &unknown) || unknown.Name != "missing" {
		t.Fatalf("err = %v, want *UnknownNameError", err)
	}

	_, err = table.Match(Named("user-detail", Params{"other": "1"}))
	if !errors.Is(err, ErrUnknownName) {
		t.Errorf("err = %v, want ErrUnknownName", err)
	}
}

func TestQueryPrecedence(t *testing.T) {
	table := appTable(t)
	r, err := table.Match(Query{URL: "/users", Name: "home"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Path != "/users" {
		t.Errorf("URL should take precedence, got %q", r.Path)
	}

	if !(Query{}).IsURL() {
		t.Error("empty query resolves as a URL")
	}
	if Named("x", nil).String() != "name:x" || URL("/a").String() != "/a" {
		t.Error("Query.String mismatch")
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if _, err := table.MatchURL("/"); !errors.Is(err, ErrUnknownURL) {
		t.Errorf("err = %v", err)
	}
	if _, err := table.MatchName("x", nil); !errors.Is(err, ErrUnknownName) {
		t.Errorf("err = %v", err)
	}
	if table.Len() != 0 {
		t.Error("nil table has no entries")
	}
}
