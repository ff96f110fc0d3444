package migrations

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
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApply_SQLiteCreatesTables(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	if err := Apply(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for _, table := range []string{"current_zone", "zone_history", "schema_migrations"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	if err := Apply(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	names, _ := migrationNames(DialectSQLite)
	if count != len(names) {
		t.Fatalf("expected %d recorded migrations, got %d", len(names), count)
	}
}

func TestApply_UnknownDialect(t *testing.T) {
	db := openSQLite(t)
	if err := Apply(context.Background(), db, "mysql"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMigrationNames_Sorted(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		names, err := migrationNames(dialect)
		if err != nil {
			t.Fatalf("%s: %v", dialect, err)
		}
		if len(names) == 0 {
			t.Fatalf("%s: expected embedded migrations", dialect)
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("%s: migrations not sorted: %v", dialect, names)
			}
		}
	}
}
