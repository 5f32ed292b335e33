package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationVersion(t *testing.T) {
	tests := map[string]string{
		"001_create_courses.sql":             "001",
		"migrations/002_add_index.sql":       "002",
		"/abs/path/010_backfill_credits.sql": "010",
	}
	for path, want := range tests {
		if got := MigrationVersion(path); got != want {
			t.Fatalf("MigrationVersion(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSQLFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "003_c.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "004_dir.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := SQLFiles(dir)
	if err != nil {
		t.Fatalf("SQLFiles: %v", err)
	}

	want := []string{"001_a.sql", "002_b.sql", "003_c.sql"}
	if len(files) != len(want) {
		t.Fatalf("got %v", files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("file %d: got %s want %s", i, files[i], name)
		}
	}
}

func TestSQLFilesMissingDirectory(t *testing.T) {
	if _, err := SQLFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestShippedMigrationsAreVersioned(t *testing.T) {
	files, err := SQLFiles(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatalf("SQLFiles: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("expected at least one migration")
	}
	seen := map[string]bool{}
	for _, f := range files {
		v := MigrationVersion(f)
		if seen[v] {
			t.Fatalf("duplicate migration version %s", v)
		}
		seen[v] = true
	}
}
