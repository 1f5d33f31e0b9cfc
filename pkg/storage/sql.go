package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
)

// SQLStore keeps values in a key/value table. It works with any
// database/sql driver; the dialect selects placeholder and upsert syntax.
//
//	CREATE TABLE outlet_state (
//	    key VARCHAR(128) PRIMARY KEY,
//	    value TEXT NOT NULL,
//	    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
//	);
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	closed    atomic.Bool
}

// SQLDialect represents the SQL dialect for query generation.
type SQLDialect int

const (
	// DialectPostgreSQL uses PostgreSQL syntax ($1, $2 placeholders).
	DialectPostgreSQL SQLDialect = iota
	// DialectMySQL uses MySQL syntax (? placeholders).
	DialectMySQL
	// DialectSQLite uses SQLite syntax (? placeholders).
	DialectSQLite
)

// ParseDialect maps a config name to a dialect.
func ParseDialect(name string) (SQLDialect, error) {
	switch name {
	case "postgres", "postgresql", "pgx":
		return DialectPostgreSQL, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return 0, fmt.Errorf("unknown sql dialect %q", name)
	}
}

// SQLStoreOption configures SQLStore behavior.
type SQLStoreOption func(*SQLStore)

// WithTableName sets the table name. Default: "outlet_state".
func WithTableName(name string) SQLStoreOption {
	return func(s *SQLStore) {
		s.tableName = name
	}
}

// WithDialect sets the SQL dialect. Default: DialectPostgreSQL.
func WithDialect(d SQLDialect) SQLStoreOption {
	return func(s *SQLStore) {
		s.dialect = d
	}
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewSQLStore creates a store and its table if missing. The caller keeps
// ownership of db; Close does not close it.
func NewSQLStore(ctx context.Context, db *sql.DB, opts ...SQLStoreOption) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil database")
	}
	s := &SQLStore{
		db:        db,
		tableName: "outlet_state",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !tableNameRe.MatchString(s.tableName) {
		return nil, fmt.Errorf("storage: invalid table name %q", s.tableName)
	}
	if err := s.createTable(ctx); err != nil {
		return nil, fmt.Errorf("storage: create table: %w", err)
	}
	return s, nil
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) createTable(ctx context.Context) error {
	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				key VARCHAR(128) PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)
		`, s.tableName)
	case DialectMySQL:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				`+"`key`"+` VARCHAR(128) PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)
		`, s.tableName)
	case DialectSQLite:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TEXT DEFAULT (datetime('now'))
			)
		`, s.tableName)
	}
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLStore) keyColumn() string {
	if s.dialect == DialectMySQL {
		return "`key`"
	}
	return "key"
}

// Get returns the value for key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed
	}
	query := fmt.Sprintf(`SELECT value FROM %s WHERE %s = %s`, s.tableName, s.keyColumn(), s.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()
		`, s.tableName)
	case DialectMySQL:
		query = fmt.Sprintf(`
			INSERT INTO %s (`+"`key`"+`, value)
			VALUES (?, ?)
			ON DUPLICATE KEY UPDATE
				value = VALUES(value)
		`, s.tableName)
	case DialectSQLite:
		query = fmt.Sprintf(`
			INSERT INTO %s (key, value, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				updated_at = datetime('now')
		`, s.tableName)
	}

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = %s`, s.tableName, s.keyColumn(), s.placeholder(1))
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

// Close marks the store closed. The database handle is left open, as it
// may be shared with other components.
func (s *SQLStore) Close() error {
	s.closed.Store(true)
	return nil
}
