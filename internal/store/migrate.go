package store

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed migrations
var migrationFS embed.FS

func (s *Store) migrationDir() string {
	if s.driver == DriverPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// migrate applies every embedded migration not yet recorded in _migrations.
// All of them run in a single transaction.
func (s *Store) migrate(ctx context.Context) error {
	dir := s.migrationDir()
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS _migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return err
	}

	for _, e := range entries {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM _migrations WHERE name = $1`, e.Name(),
		).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		body, err := migrationFS.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		for _, stmt := range splitStatements(string(body)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO _migrations (name, applied_at) VALUES ($1, $2)`,
			e.Name(), time.Now().UTC().Format(timeLayout),
		); err != nil {
			return err
		}
		s.log.Info().Str("migration", e.Name()).Msg("migration applied")
	}

	return tx.Commit()
}

// splitStatements drops "--" comment lines and splits on semicolons.
func splitStatements(src string) []string {
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
