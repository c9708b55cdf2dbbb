// Package migration applies versioned SQL files to QuestDB and records them in
// a schema_migrations table.
package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/logger"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/questdb"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"

	createTableSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	id SYMBOL,
	name STRING,
	applied_at TIMESTAMP
) TIMESTAMP(applied_at) PARTITION BY YEAR`
	appliedSQL = "SELECT id FROM schema_migrations ORDER BY applied_at"
	recordSQL  = "INSERT INTO schema_migrations VALUES ($1, $2, now())"
	removeSQL  = "DELETE FROM schema_migrations WHERE id = $1"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Runner handles migration execution
type Runner struct {
	client questdb.QuestDBClient
	files  fs.FS
	logger logger.Interface
}

// NewRunner creates a runner applying the *.up.sql and *.down.sql files at the root of files.
func NewRunner(client questdb.QuestDBClient, files fs.FS, log logger.Interface) *Runner {
	return &Runner{
		client: client,
		files:  files,
		logger: log,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	return r.client.Exec(ctx, createTableSQL)
}

// AppliedMigrations returns the set of applied migration IDs
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, appliedSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads every migration ordered by file name
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.files, "*"+upSuffix)
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		m, err := r.parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, m)
	}

	return migrations, nil
}

// parseMigrationFiles reads an up file and its optional down file. File names
// follow YYYYMMDDHHMMSS_name; other prefixes get a zero timestamp.
func (r *Runner) parseMigrationFiles(upFile string) (Migration, error) {
	upContent, err := fs.ReadFile(r.files, upFile)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFile), upSuffix)
	name := id
	parts := strings.SplitN(id, "_", 2)
	if len(parts) > 1 {
		name = parts[1]
	}

	timestamp, err := time.Parse("20060102150405", parts[0])
	if err != nil {
		timestamp = time.Unix(0, 0).UTC()
	}

	var downSQL string
	if downContent, err := fs.ReadFile(r.files, strings.TrimSuffix(upFile, upSuffix)+downSuffix); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
// It returns the IDs that were applied.
func (r *Runner) MigrateUp(ctx context.Context, steps int) ([]string, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migration table: %w", err)
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var toApply []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			toApply = append(toApply, m)
		}
	}
	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	done := make([]string, 0, len(toApply))
	for _, m := range toApply {
		if m.UpSQL == "" {
			r.logger.WarnContext(ctx, "migration has no up statements", logger.NewField("migration", m.ID))
			continue
		}

		for _, stmt := range splitStatements(m.UpSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return done, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
			}
		}
		if err := r.client.Exec(ctx, recordSQL, m.ID, m.Name); err != nil {
			return done, fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}

		r.logger.InfoContext(ctx, "migration applied", logger.NewField("migration", m.ID))
		done = append(done, m.ID)
	}

	return done, nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) ([]string, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	done := make([]string, 0, len(toRevert))
	for _, m := range toRevert {
		if m.DownSQL == "" {
			return done, fmt.Errorf("no down statements for migration %s", m.ID)
		}

		for _, stmt := range splitStatements(m.DownSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return done, fmt.Errorf("failed to revert migration %s: %w", m.ID, err)
			}
		}
		if err := r.client.Exec(ctx, removeSQL, m.ID); err != nil {
			return done, fmt.Errorf("failed to remove migration record %s: %w", m.ID, err)
		}

		r.logger.InfoContext(ctx, "migration reverted", logger.NewField("migration", m.ID))
		done = append(done, m.ID)
	}

	return done, nil
}

// splitStatements splits a migration file on semicolons. QuestDB executes one
// statement per call.
func splitStatements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
