package sqllite

import (
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/flowbenchhq/flowbench/internal/migrations"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB migrates a fresh sqlite file under t.TempDir and returns
// an open handle. The dialect env var steers placeholder generation in
// the repositories.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	os.Setenv("FBENCH_DATABASE_TYPE", "SQLLITE")

	filename := filepath.Join(t.TempDir(), "flowbench-test.db")
	sub, err := fs.Sub(migrations.FS, "sqllite3")
	if err != nil {
		t.Fatalf("Failed to open migrations: %v", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		t.Fatalf("Failed to build migration source: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, "sqlite3://"+filename)
	if err != nil {
		t.Fatalf("Failed to init migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("Migration failed: %v", err)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		t.Fatalf("Failed to close migrator: %v %v", srcErr, dbErr)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		t.Fatalf("Failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
