package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Each pooled connection would get its own in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLStore(ctx, openSQLite(t), WithDialect(DialectSQLite))
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}

	if _, ok, err := store.Get(ctx, RouteKey); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := store.Set(ctx, RouteKey, "/users/5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, RouteKey, "/settings"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	v, ok, err := store.Get(ctx, RouteKey)
	if err != nil || !ok || v != "/settings" {
		t.Errorf("Get() = %q, %v, %v; want /settings", v, ok, err)
	}

	if err := store.Delete(ctx, RouteKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, RouteKey); ok {
		t.Error("key should be gone after Delete")
	}
	if err := store.Delete(ctx, RouteKey); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestSQLStoreCustomTable(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	store, err := NewSQLStore(ctx, db, WithDialect(DialectSQLite), WithTableName("nav"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM nav`).Scan(&n); err != nil || n != 1 {
		t.Errorf("rows = %d, err = %v", n, err)
	}

	// Reopening against an existing table is fine.
	if _, err := NewSQLStore(ctx, db, WithDialect(DialectSQLite), WithTableName("nav")); err != nil {
		t.Errorf("reopen error = %v", err)
	}
}

func TestSQLStoreRejectsBadTableName(t *testing.T) {
	if _, err := NewSQLStore(context.Background(), openSQLite(t), WithTableName("x; DROP TABLE y")); err == nil {
		t.Error("expected invalid table name error")
	}
	if _, err := NewSQLStore(context.Background(), nil); err == nil {
		t.Error("expected nil database error")
	}
}

func TestSQLStoreClosed(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLStore(ctx, openSQLite(t), WithDialect(DialectSQLite))
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	if err := store.Set(ctx, "k", "v"); err != ErrStoreClosed {
		t.Errorf("Set() = %v, want ErrStoreClosed", err)
	}
	if _, _, err := store.Get(ctx, "k"); err != ErrStoreClosed {
		t.Errorf("Get() = %v, want ErrStoreClosed", err)
	}
}

func TestParseDialect(t *testing.T) {
	tests := map[string]SQLDialect{
		"postgres": DialectPostgreSQL,
		"mysql":    DialectMySQL,
		"sqlite":   DialectSQLite,
	}
	for name, want := range tests {
		got, err := ParseDialect(name)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseDialect("oracle"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestSQLPlaceholders(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgreSQL}
	if pg.placeholder(2) != "$2" || pg.keyColumn() != "key" {
		t.Error("postgres syntax mismatch")
	}
	my := &SQLStore{dialect: DialectMySQL}
	if my.placeholder(2) != "?" || my.keyColumn() != "`key`" {
		t.Error("mysql syntax mismatch")
	}
}
