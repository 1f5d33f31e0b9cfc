package main

import (
	"context"
	"database/sql"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	_ "modernc.org/sqlite"

	"github.com/vango-dev/outlet/internal/config"
	"github.com/vango-dev/outlet/internal/errors"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/storage"
)

// loadProject loads path, or the nearest outlet.json when path is empty.
func loadProject(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}

// loadRoutes decodes the configured route file and compiles it once so
// duplicates are reported with the file name.
func loadRoutes(cfg *config.Config) ([]*route.Definition, error) {
	path := cfg.RoutesPath()
	defs, err := route.DecodeFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E148").
				WithDetail("Route file " + path + " does not exist").
				WithSuggestion("Create it or set routes in outlet.json")
		}
		oe := errors.Classify(err, "E148")
		var pe toml.ParseError
		if stderrors.As(err, &pe) {
			oe = oe.WithLocation(path, pe.Position.Line, pe.Position.Col)
		}
		return nil, oe
	}
	if _, err := route.Compile(defs); err != nil {
		return nil, errors.Classify(err, "E148").
			WithSuggestion("Rename or remove one of the declarations in " + path)
	}
	return defs, nil
}

// newLogger builds the handler selected by log.level and log.format.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, errors.New("E121").WithDetail("log.level: " + err.Error())
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openStore opens the configured persistence backend. The returned close
// function releases the store and anything opened for it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.BackendSQL:
		dialect, err := storage.ParseDialect(sc.Dialect)
		if err != nil {
			return nil, nil, errors.New("E121").WithDetail("storage.dialect: " + err.Error())
		}
		db, err := sql.Open(sc.Driver, sc.DSN)
		if err != nil {
			return nil, nil, errors.New("E160").Wrap(err)
		}
		if dialect == storage.DialectSQLite {
			db.SetMaxOpenConns(1)
		}
		opts := []storage.SQLStoreOption{storage.WithDialect(dialect)}
		if sc.Table != "" {
			opts = append(opts, storage.WithTableName(sc.Table))
		}
		store, err := storage.NewSQLStore(ctx, db, opts...)
		if err != nil {
			db.Close()
			return nil, nil, errors.New("E160").Wrap(err)
		}
		return store, func() {
			store.Close()
			db.Close()
		}, nil

	case config.BackendS3:
		client := storage.NewS3Client(storage.S3Config{
			Region:          sc.Region,
			Endpoint:        sc.Endpoint,
			AccessKeyID:     sc.AccessKeyID,
			SecretAccessKey: sc.SecretAccessKey,
			UsePathStyle:    sc.PathStyle,
		})
		store := storage.NewS3Store(client, sc.Bucket, storage.WithS3Prefix(sc.Prefix))
		return store, func() { store.Close() }, nil

	default:
		store := storage.NewMemoryStore()
		return store, func() { store.Close() }, nil
	}
}
