package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anpos/pos-backend/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	sqlDB, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestUpCreatesSchema(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))

	for _, table := range []string{"carts", "cart_items", "products", "invoice_sequences", "operators"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}

	version, err := Version(sqlDB, config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20260301090400), version)
}

func TestSingleActiveIndexRejectsSecondActiveCart(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))

	insert := `INSERT INTO carts (cart_name, status, created_at) VALUES (?, ?, '2026-03-01 10:00:00')`
	_, err := sqlDB.Exec(insert, "A", "active")
	require.NoError(t, err)
	_, err = sqlDB.Exec(insert, "B", "parked")
	require.NoError(t, err)
	_, err = sqlDB.Exec(insert, "C", "parked")
	require.NoError(t, err)

	_, err = sqlDB.Exec(insert, "D", "active")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestCartsColumnDefaults(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Up(context.Background(), sqlDB, config.DriverSQLite))

	before := time.Now().UTC().Add(-time.Second).Format("2006-01-02 15:04:05")
	res, err := sqlDB.Exec(`INSERT INTO carts (cart_name) VALUES (?)`, "Walk-in")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	var status, createdAt string
	require.NoError(t, sqlDB.QueryRow(`SELECT status, created_at FROM carts WHERE cart_id = ?`, id).Scan(&status, &createdAt))
	assert.Equal(t, "active", status)

	parsed, err := time.Parse("2006-01-02 15:04:05", createdAt)
	require.NoError(t, err, "created_at %q", createdAt)
	assert.GreaterOrEqual(t, parsed.Format("2006-01-02 15:04:05"), before)
}

func TestMigrateToVersionDown(t *testing.T) {
	sqlDB := openSQLite(t)
	ctx := context.Background()
	require.NoError(t, Up(ctx, sqlDB, config.DriverSQLite))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "20260301090000"))

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'operators'`).Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "20260301090400"))
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'operators'`).Scan(&count))
	assert.Equal(t, 1, count)

	assert.Error(t, MigrateToVersion(ctx, sqlDB, config.DriverSQLite, "latest"))
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	sqlDB := openSQLite(t)
	assert.Error(t, Run(context.Background(), sqlDB, "oracle", "up"))
	assert.Error(t, Run(context.Background(), nil, config.DriverSQLite, "up"))
}

func TestEmbeddedMigrationsAreValidAndInParity(t *testing.T) {
	require.NoError(t, ValidateEmbedded(config.DriverSQLite))
	require.NoError(t, ValidateEmbedded(config.DriverPostgres))
	require.NoError(t, ValidateEmbeddedParity())

	names := func(driver string) []string {
		entries, err := fs.ReadDir(embedded, embeddedDir(driver))
		require.NoError(t, err)
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name())
		}
		return out
	}
	assert.Equal(t, names(config.DriverSQLite), names(config.DriverPostgres))
}

func TestPostgresCartsMigrationContainsConstraints(t *testing.T) {
	data, err := fs.ReadFile(embedded, "migrations/postgres/20260301090000_create_carts.sql")
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS carts",
		"cart_id BIGSERIAL PRIMARY KEY",
		"status TEXT NOT NULL DEFAULT 'active'",
		"created_at TEXT NOT NULL DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')",
		"CREATE UNIQUE INDEX IF NOT EXISTS carts_single_active ON carts (status) WHERE status = 'active'",
		"DROP TABLE IF EXISTS carts",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestCreateMigrationPairAndValidateDir(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 3, 20, 8, 15, 0, 0, time.UTC)

	paths, err := CreateMigrationPair(root, "Add Cart Notes!", now)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(root, "sqlite", "20260320081500_add_cart_notes.sql"), paths[0])
	assert.Equal(t, filepath.Join(root, "postgres", "20260320081500_add_cart_notes.sql"), paths[1])
	require.NoError(t, ValidateDir(filepath.Join(root, "sqlite")))
	require.NoError(t, ValidateDir(filepath.Join(root, "postgres")))
	require.NoError(t, ValidateTree(root))

	_, err = CreateMigrationPair(root, "add cart notes", now)
	assert.Error(t, err)

	sqliteDir := filepath.Join(root, "sqlite")
	require.NoError(t, os.WriteFile(filepath.Join(sqliteDir, "bad-name.sql"), []byte("-- +goose Up"), 0o644))
	assert.Error(t, ValidateDir(sqliteDir))

	_, err = CreateMigrationPair(root, "!!!", now)
	assert.Error(t, err)
}

func TestValidateTreeReportsDriftAndEveryBadFile(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 3, 20, 8, 15, 0, 0, time.UTC)
	_, err := CreateMigrationPair(root, "add cart notes", now)
	require.NoError(t, err)

	sqliteDir := filepath.Join(root, "sqlite")
	require.NoError(t, os.WriteFile(filepath.Join(sqliteDir, "20260321000000_only_sqlite.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err = ValidateTree(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration trees differ")

	require.NoError(t, os.WriteFile(filepath.Join(sqliteDir, "20260322000000_reversed.sql"), []byte("-- +goose Down\n-- +goose Up\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sqliteDir, "20260323000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644))
	err = ValidateDir(sqliteDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20260322000000_reversed.sql")
	assert.Contains(t, err.Error(), "20260323000000_no_down.sql")
}

func TestSourceDir(t *testing.T) {
	assert.Equal(t, filepath.Join(DefaultDir, "sqlite"), SourceDir(""))
	assert.Equal(t, filepath.Join(DefaultDir, "postgres"), SourceDir(config.DriverPostgres))
	assert.Equal(t, filepath.Join("custom", "sqlite"), SourceDirIn("custom", "oracle"))
}
