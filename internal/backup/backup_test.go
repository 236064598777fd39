package backup_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfd/shelfd/internal/backup"
	_ "modernc.org/sqlite"
)

// newTestDB creates a small on-disk database with one row.
func newTestDB(t *testing.T, dir string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "shelfd.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE books (title TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO books (title) VALUES ('Dune')"); err != nil {
		t.Fatalf("insert row: %v", err)
	}
	return dbPath
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	dbPath := newTestDB(t, srcDir)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := backup.Backup(context.Background(), dbPath, "", archive); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	restoreDir := t.TempDir()
	if err := backup.Restore(context.Background(), archive, restoreDir, false); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	restored, err := sql.Open("sqlite", filepath.Join(restoreDir, "shelfd.db"))
	if err != nil {
		t.Fatalf("open restored db: %v", err)
	}
	defer restored.Close()

	var title string
	if err := restored.QueryRow("SELECT title FROM books").Scan(&title); err != nil {
		t.Fatalf("query restored db: %v", err)
	}
	if title != "Dune" {
		t.Errorf("restored title = %q, want Dune", title)
	}
}

func TestBackupMissingDatabase(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	err := backup.Backup(context.Background(), "/nonexistent/shelfd.db", "", archive)
	if err == nil {
		t.Fatal("Backup with missing database should error")
	}
}

func TestRestoreRefusesOverwrite(t *testing.T) {
	srcDir := t.TempDir()
	dbPath := newTestDB(t, srcDir)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := backup.Backup(context.Background(), dbPath, "", archive); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	restoreDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(restoreDir, "shelfd.db"), []byte("existing"), 0o644); err != nil {
		t.Fatalf("write existing file: %v", err)
	}

	if err := backup.Restore(context.Background(), archive, restoreDir, false); err == nil {
		t.Fatal("Restore over existing file without force should error")
	}
	if err := backup.Restore(context.Background(), archive, restoreDir, true); err != nil {
		t.Fatalf("Restore with force: %v", err)
	}
}
