package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vango-dev/outlet/pkg/route"
)

func testTable() *route.Table {
	return route.MustCompile([]*route.Definition{
		{Path: "/", Name: "home"},
		{Path: "/users", Children: []*route.Definition{
			{Path: ""},
			{Path: ":id", Name: "user"},
		}},
	})
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		params   []string
		wantURL  string
		wantName string
		wantErr  bool
	}{
		{"url", "/users/4", nil, "/users/4", "", false},
		{"name", "user", []string{"id=4"}, "", "user", false},
		{"name without params", "home", nil, "", "home", false},
		{"empty", "", nil, "", "", true},
		{"params on url", "/users/4", []string{"id=4"}, "", "", true},
		{"malformed param", "user", []string{"id"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parseQuery(tt.arg, tt.params)
			if tt.wantErr {
				if errorCode(err) != "E149" {
					t.Errorf("error = %v, want E149", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if q.URL != tt.wantURL || q.Name != tt.wantName {
				t.Errorf("query = %+v", q)
			}
		})
	}

	q, _ := parseQuery("user", []string{"id=4"})
	if q.Params.Get("id") != "4" {
		t.Errorf("params = %v", q.Params)
	}
	if q, _ := parseQuery("home", nil); q.Params != nil {
		t.Errorf("params without --param = %v, want nil", q.Params)
	}
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	printRoutes(&buf, testTable())
	out := buf.String()

	for _, want := range []string{"/users/:id", "user", "/users > (index)", "3 routes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRoutesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRoutesJSON(&buf, testTable()); err != nil {
		t.Fatal(err)
	}
	var lines []routeLine
	if err := json.Unmarshal(buf.Bytes(), &lines); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 || lines[2].Path != "/users/:id" || lines[2].Name != "user" {
		t.Errorf("lines = %+v", lines)
	}
}

func TestPrintMatch(t *testing.T) {
	matched, err := testTable().MatchURL("/users/9")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printMatch(&buf, matched)
	out := buf.String()
	for _, want := range []string{"Path:   /users/:id", "URL:    /users/9", "id = 9"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
