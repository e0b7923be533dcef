package main

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/riskibarqy/tournament-engine/db"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	if v, err := parseVersion(" 1772409700 "); err != nil || v != 1772409700 {
		t.Fatalf("unexpected parse result v=%d err=%v", v, err)
	}
	for _, raw := range []string{"", "-1", "abc", "99999999999999999999"} {
		if _, err := parseVersion(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestMigrationsDirPrecedence(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("MIGRATIONS_PATH", " ./from-path ")

	opts := &rootOptions{}
	if got := opts.migrationsDir(); got != "./from-path" {
		t.Fatalf("expected MIGRATIONS_PATH fallback, got %q", got)
	}

	t.Setenv("MIGRATIONS_DIR", "./from-dir")
	if got := opts.migrationsDir(); got != "./from-dir" {
		t.Fatalf("expected MIGRATIONS_DIR, got %q", got)
	}

	opts.dir = "./from-flag"
	if got := opts.migrationsDir(); got != "./from-flag" {
		t.Fatalf("expected flag to win, got %q", got)
	}
}

func TestNewMigrator_RejectsMissingDir(t *testing.T) {
	t.Parallel()

	_, _, err := newMigrator("postgres://localhost/tournament_engine", t.TempDir()+"/missing")
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected missing dir error, got %v", err)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(db.Migrations, db.MigrationsPath)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired migrations, got up=%d down=%d", ups, downs)
	}
}

func TestRootCmd_ValidatesArgs(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"down", "1", "2"},
		{"force"},
		{"goto"},
		{"up", "extra"},
	}
	for _, args := range cases {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		if err := root.Execute(); err == nil {
			t.Fatalf("expected arg error for %v", args)
		}
	}
}
