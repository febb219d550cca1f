package shared

import (
	"database/sql"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i, m := range migrations {
		if m.Up == "" || m.Down == "" {
			t.Errorf("migration %d missing up or down script", m.Version)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Errorf("migrations not sorted: %d before %d", migrations[i-1].Version, m.Version)
		}
	}
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, table := range []string{"schema_migrations", "artist_cache", "sync_runs", "sync_runs_sequence"} {
		if !tableExists(t, db, table) {
			t.Errorf("expected table %s to exist", table)
		}
	}

	var seeded int
	if err := db.QueryRow("SELECT value FROM sync_runs_sequence WHERE id = 1").Scan(&seeded); err != nil {
		t.Fatalf("expected seeded sequence row: %v", err)
	}
	if seeded != 0 {
		t.Errorf("expected sequence seeded to 0, got %d", seeded)
	}

	// A second run must be a no-op.
	if err := RunMigrations(db); err != nil {
		t.Fatalf("re-running migrations failed: %v", err)
	}
}

func TestRollbackMigration(t *testing.T) {
	db := openTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tableExists(t, db, "sync_runs") {
		t.Error("expected sync_runs to be dropped by rollback")
	}
	if !tableExists(t, db, "artist_cache") {
		t.Error("expected artist_cache to survive a single rollback")
	}

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tableExists(t, db, "artist_cache") {
		t.Error("expected artist_cache to be dropped by second rollback")
	}

	if err := RollbackMigration(db); err == nil {
		t.Error("expected error when nothing is left to rollback")
	}
}

func TestStripSQLComments(t *testing.T) {
	in := "-- leading comment\nCREATE TABLE t (\n  id TEXT -- trailing\n)"
	got := stripSQLComments(in)
	want := "CREATE TABLE t (\nid TEXT\n)"
	if got != want {
		t.Errorf("stripSQLComments() = %q, want %q", got, want)
	}
}
