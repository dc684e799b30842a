package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed migrations
var embeddedMigrations embed.FS

// RunMigrations executes the bundled migrations for the connection's dialect
func (db *DB) RunMigrations(ctx context.Context) error {
	sub, err := fs.Sub(embeddedMigrations, path.Join("migrations", db.Dialect.MigrationsSubdir()))
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return db.RunMigrationsFS(ctx, sub)
}

// RunMigrationsFrom executes migrations from <dir>/<dialect subdir> on disk
func (db *DB) RunMigrationsFrom(ctx context.Context, dir string) error {
	return db.RunMigrationsFS(ctx, os.DirFS(path.Join(dir, db.Dialect.MigrationsSubdir())))
}

// RunMigrationsFS executes every *.sql file in fsys, in name order,
// skipping files already recorded in the migrations table
func (db *DB) RunMigrationsFS(ctx context.Context, fsys fs.FS) error {
	if _, err := db.ExecContext(ctx, db.Dialect.CreateMigrationsTableQuery()); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	for _, filename := range files {
		hasRun, err := db.hasMigrationRun(ctx, filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if err := db.executeMigration(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO migrations (filename) VALUES (?)", filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		logrus.WithField("migration", filename).Info("Migration completed")
	}

	return nil
}

// hasMigrationRun checks if a migration has already been executed
func (db *DB) hasMigrationRun(ctx context.Context, filename string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE filename = ?", filename).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// executeMigration runs the statements of one migration file in a transaction
func (db *DB) executeMigration(ctx context.Context, content string) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(content) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// splitStatements breaks a migration file on semicolons at line ends
func splitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";\n") {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), ";"))
		if part != "" {
			stmts = append(stmts, part)
		}
	}
	return stmts
}
