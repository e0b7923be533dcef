package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/riskibarqy/tournament-engine/db"
	"github.com/riskibarqy/tournament-engine/internal/config"
	"github.com/riskibarqy/tournament-engine/internal/platform/database"
	"github.com/riskibarqy/tournament-engine/internal/platform/logging"
	"github.com/spf13/cobra"
)

type migrateFunc func(cmd *cobra.Command, m *migrate.Migrate, args []string) error

type rootOptions struct {
	dir    string
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "migration",
		Short:        "Applies the tournament engine schema migrations",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = logging.New(logging.Options{Level: logging.LevelInfo, Format: logging.FormatConsole, Output: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringVarP(&opts.dir, "dir", "d", "",
		"read migrations from this directory instead of the embedded set (env MIGRATIONS_DIR)")

	up := &cobra.Command{
		Use:   "up",
		Args:  cobra.NoArgs,
		Short: "Apply every pending migration",
		RunE: opts.run(func(_ *cobra.Command, m *migrate.Migrate, _ []string) error {
			return opts.report(m.Up(), "migrations applied")
		}),
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Roll back the latest migrations, one by default",
		RunE: opts.run(func(_ *cobra.Command, m *migrate.Migrate, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return opts.report(m.Steps(-steps), "migrations rolled back", "steps", steps)
		}),
	}

	version := &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Print the applied version and dirty flag",
		RunE: opts.run(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "version: none\ndirty: false")
				return err
			}
			if err != nil {
				return fmt.Errorf("read version: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", v, dirty)
			return err
		}),
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Args:  cobra.ExactArgs(1),
		Short: "Set the version without running migrations, clearing the dirty flag",
		RunE: opts.run(func(_ *cobra.Command, m *migrate.Migrate, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if err := m.Force(int(v)); err != nil {
				return fmt.Errorf("force version %d: %w", v, err)
			}
			opts.logger.Info("version forced", "version", v)
			return nil
		}),
	}

	gotoCmd := &cobra.Command{
		Use:     "goto <version>",
		Aliases: []string{"migrate"},
		Args:    cobra.ExactArgs(1),
		Short:   "Migrate up or down to the given version",
		RunE: opts.run(func(_ *cobra.Command, m *migrate.Migrate, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return opts.report(m.Migrate(uint(v)), "migrated", "version", v)
		}),
	}

	root.AddCommand(up, down, version, force, gotoCmd)
	return root
}

// run opens a migrator against DB_URL and always closes it after fn.
func (o *rootOptions) run(fn migrateFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		m, source, err := newMigrator(database.ConnectionURL(cfg.DBURL, cfg.DBDisablePreparedBinary), o.migrationsDir())
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil || dbErr != nil {
				o.logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
			}
		}()

		o.logger.Info("migrator ready", "source", source, "db_name", database.Name(cfg.DBURL))
		return fn(cmd, m, args)
	}
}

// report treats ErrNoChange as success.
func (o *rootOptions) report(err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		o.logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	o.logger.Info(msg, args...)
	return nil
}

func (o *rootOptions) migrationsDir() string {
	for _, candidate := range []string{o.dir, os.Getenv("MIGRATIONS_DIR"), os.Getenv("MIGRATIONS_PATH")} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate
		}
	}
	return ""
}

// newMigrator reads migrations from dir when given and from the files
// embedded in the binary otherwise.
func newMigrator(dbURL, dir string) (*migrate.Migrate, string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve migrations dir: %w", err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return nil, "", fmt.Errorf("migrations dir %q is not a directory", abs)
		}
		source := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(source, dbURL)
		return m, source, err
	}

	src, err := iofs.New(db.Migrations, db.MigrationsPath)
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	return m, "embedded", err
}

func parseVersion(raw string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("version must be a non-negative integer, got %q", raw)
	}
	return uint(v), nil
}
