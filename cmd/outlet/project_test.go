package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/outlet/internal/config"
	"github.com/vango-dev/outlet/internal/errors"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/storage"
)

func errorCode(err error) string {
	var oe *errors.OutletError
	if stderrors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// writeProject writes outlet.json and a route file, then loads the config.
func writeProject(t *testing.T, cfgBody, routesName, routesBody string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(cfgBody), 0644); err != nil {
		t.Fatal(err)
	}
	if routesName != "" {
		if err := os.WriteFile(filepath.Join(dir, routesName), []byte(routesBody), 0644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := loadProject(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		t.Fatalf("loadProject() error = %v", err)
	}
	return cfg
}

const jsonRoutes = `{"routes": [
  {"path": "/", "name": "home"},
  {"path": "/users", "children": [{"path": ""}, {"path": ":id", "name": "user"}]}
]}`

func TestLoadRoutesJSON(t *testing.T) {
	cfg := writeProject(t, `{}`, "routes.json", jsonRoutes)
	defs, err := loadRoutes(cfg)
	if err != nil {
		t.Fatalf("loadRoutes() error = %v", err)
	}
	if n := route.MustCompile(defs).Len(); n != 3 {
		t.Errorf("table len = %d, want 3", n)
	}
}

func TestLoadRoutesTOMLSyntaxError(t *testing.T) {
	body := "[[routes]]\npath = \n"
	cfg := writeProject(t, `{"routes": "routes.toml"}`, "routes.toml", body)

	_, err := loadRoutes(cfg)
	if got := errorCode(err); got != "E148" {
		t.Fatalf("code = %q, want E148 (%v)", got, err)
	}
	var oe *errors.OutletError
	stderrors.As(err, &oe)
	if oe.Location == nil || oe.Location.Line != 2 {
		t.Errorf("location = %+v, want line 2", oe.Location)
	}
}

func TestLoadRoutesMissingFile(t *testing.T) {
	cfg := writeProject(t, `{}`, "", "")
	_, err := loadRoutes(cfg)
	if got := errorCode(err); got != "E148" {
		t.Errorf("code = %q, want E148", got)
	}
}

func TestLoadRoutesDuplicates(t *testing.T) {
	body := `{"routes": [{"path": "/a", "name": "x"}, {"path": "/b", "name": "x"}]}`
	cfg := writeProject(t, `{}`, "routes.json", body)

	_, err := loadRoutes(cfg)
	if got := errorCode(err); got != "E104" {
		t.Errorf("code = %q, want E104", got)
	}
	if !stderrors.Is(err, route.ErrDuplicateRoute) {
		t.Errorf("error does not wrap ErrDuplicateRoute: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}

	cfg.Log.Level = "loud"
	if _, err := newLogger(cfg, &buf); errorCode(err) != "E121" {
		t.Errorf("bad level error = %v, want E121", err)
	}
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		storage config.StorageConfig
		want    any
	}{
		{"memory", config.StorageConfig{Backend: config.BackendMemory}, &storage.MemoryStore{}},
		{"sql", config.StorageConfig{Backend: config.BackendSQL, Driver: "sqlite", DSN: ":memory:", Dialect: "sqlite", Table: "nav_state"}, &storage.SQLStore{}},
		{"s3", config.StorageConfig{Backend: config.BackendS3, Bucket: "routes", Region: "us-east-1"}, &storage.S3Store{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Storage = tt.storage

			store, closeStore, err := openStore(context.Background(), cfg)
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer closeStore()

			switch tt.want.(type) {
			case *storage.MemoryStore:
				_, ok := store.(*storage.MemoryStore)
				if !ok {
					t.Errorf("store = %T", store)
				}
			case *storage.SQLStore:
				if _, ok := store.(*storage.SQLStore); !ok {
					t.Fatalf("store = %T", store)
				}
				ctx := context.Background()
				if err := store.Set(ctx, storage.RouteKey, "/users/1"); err != nil {
					t.Fatal(err)
				}
				if v, ok, err := store.Get(ctx, storage.RouteKey); err != nil || !ok || v != "/users/1" {
					t.Errorf("Get() = %q, %v, %v", v, ok, err)
				}
			case *storage.S3Store:
				if _, ok := store.(*storage.S3Store); !ok {
					t.Errorf("store = %T", store)
				}
			}
		})
	}
}

func TestOpenStoreBadDialect(t *testing.T) {
	cfg := config.New()
	cfg.Storage = config.StorageConfig{Backend: config.BackendSQL, Driver: "sqlite", DSN: ":memory:", Dialect: "oracle"}
	if _, _, err := openStore(context.Background(), cfg); errorCode(err) != "E121" {
		t.Errorf("error = %v, want E121", err)
	}
}
