package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFiles embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const advisoryLockID int64 = 704512093

// Apply runs the embedded SQL migrations for dialect in filename order.
// Applied files are recorded in schema_migrations and skipped on later runs.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	names, err := migrationNames(dialect)
	if err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if dialect == DialectPostgres {
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}
		defer func() {
			_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockID)
		}()
	}

	if _, err := conn.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	existsQuery := `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`
	recordQuery := `INSERT INTO schema_migrations (name) VALUES ($1)`
	if dialect == DialectSQLite {
		existsQuery = `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = ?)`
		recordQuery = `INSERT INTO schema_migrations (name) VALUES (?)`
	}

	for _, name := range names {
		var applied bool
		if err := conn.QueryRowContext(ctx, existsQuery, name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		sqlBytes, err := migrationFiles.ReadFile(dialect + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		stmt := strings.TrimSpace(string(sqlBytes))
		if stmt == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := conn.ExecContext(ctx, recordQuery, name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationNames(dialect string) ([]string, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	entries, err := fs.ReadDir(migrationFiles, dialect)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
