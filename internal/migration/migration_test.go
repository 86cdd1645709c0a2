package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApply_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	migrationsFS := fstest.MapFS{
		"001_initial.sql": {Data: []byte(`CREATE TABLE widgets (id TEXT PRIMARY KEY);`)},
		"002_add_name.sql": {Data: []byte(`ALTER TABLE widgets ADD COLUMN name TEXT NOT NULL DEFAULT '';`)},
	}

	r := NewRunner(db, migrationsFS)

	applied, err := r.Apply()
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied %d migrations, want 2", applied)
	}

	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("version read failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version %d, want 2", version)
	}

	// Idempotent: nothing pending on a second run.
	applied, err = r.Apply()
	if err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second apply ran %d migrations, want 0", applied)
	}

	if _, err := db.Exec(`INSERT INTO widgets (id, name) VALUES ('w1', 'gear')`); err != nil {
		t.Errorf("migrated schema unusable: %v", err)
	}
}

func TestApply_StopsAtFailureAndKeepsVersion(t *testing.T) {
	db := openTestDB(t)
	migrationsFS := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE a (id TEXT);`)},
		"002_broken.sql": {Data: []byte(`THIS IS NOT SQL;`)},
	}

	r := NewRunner(db, migrationsFS)

	applied, err := r.Apply()
	if err == nil {
		t.Fatal("expected the broken migration to fail")
	}
	if applied != 1 {
		t.Errorf("applied %d before failing, want 1", applied)
	}

	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("version read failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version after failure %d, want 1 (last fully-applied)", version)
	}
}

func TestReadMigrations_RejectsBadFilenames(t *testing.T) {
	db := openTestDB(t)

	for name, fsys := range map[string]fstest.MapFS{
		"missing underscore": {"001.sql": {Data: []byte(`SELECT 1;`)}},
		"non-numeric":        {"abc_x.sql": {Data: []byte(`SELECT 1;`)}},
		"zero version":       {"000_x.sql": {Data: []byte(`SELECT 1;`)}},
		"duplicate version": {
			"001_a.sql":  {Data: []byte(`SELECT 1;`)},
			"001_b.sql":  {Data: []byte(`SELECT 1;`)},
			"002_ok.sql": {Data: []byte(`SELECT 1;`)},
		},
	} {
		if _, err := NewRunner(db, fsys).Apply(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestValidate_NewerSchemaRejected(t *testing.T) {
	db := openTestDB(t)
	migrationsFS := fstest.MapFS{
		"001_initial.sql": {Data: []byte(`CREATE TABLE a (id TEXT);`)},
	}

	r := NewRunner(db, migrationsFS)
	if _, err := r.Apply(); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// Simulate a database touched by a newer build.
	if _, err := db.Exec(`UPDATE schema_version SET version = 99`); err != nil {
		t.Fatalf("version bump failed: %v", err)
	}

	if err := r.Validate(); err == nil {
		t.Error("expected validation to reject the newer schema")
	}
}
