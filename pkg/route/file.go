package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the on-disk form of a route tree. It carries structure only:
// components, render functions and hooks are attached in code.
//
// JSON:
//
//	{"routes": [{"path": "/users", "name": "users", "children": [{"path": ":id"}]}]}
//
// TOML:
//
//	[[routes]]
//	path = "/users"
//	name = "users"
//	  [[routes.children]]
//	  path = ":id"
type File struct {
	Routes []*Definition `json:"routes" toml:"routes"`
}

// DecodeFile reads a route tree from a .json or .toml file.
func DecodeFile(path string) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode parses a route tree in the given format ("json" or "toml").
func Decode(data []byte, format string) ([]*Definition, error) {
	var f File
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode json routes: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("decode toml routes: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml routes: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported route file format %q", format)
	}
	return f.Routes, nil
}
