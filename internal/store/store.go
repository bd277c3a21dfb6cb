package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// timeLayout is the on-disk format of start_date and end_date.
const timeLayout = "2006-01-02 15:04:05"

type Store struct {
	db     *sql.DB
	driver string
	loc    *time.Location
	log    zerolog.Logger
}

type Option func(*Store)

// WithLocation sets the location stored timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects to the database named by driver and dsn and applies pending
// migrations. For sqlite3 the dsn is a file path; its directory is created.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	switch driver {
	case DriverSQLite:
		path, full := sqliteDSN(dsn)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn = full
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer; also keeps the foreign_keys setting on every statement
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(db, driver, opts...)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// New wraps an already opened database. Migrations are not applied.
func New(db *sql.DB, driver string, opts ...Option) *Store {
	s := &Store{
		db:     db,
		driver: driver,
		loc:    time.Local,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Location() *time.Location { return s.loc }

func (s *Store) Close() error {
	return s.db.Close()
}

// sqliteDSN returns the file path part of dsn and dsn with foreign keys enabled.
func sqliteDSN(dsn string) (path, full string) {
	path = strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	full = dsn
	if !strings.Contains(full, "_foreign_keys") && !strings.Contains(full, "_fk=") {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		full += sep + "_foreign_keys=on"
	}
	return path, full
}

// fail logs a driver error and wraps it for the caller.
func (s *Store) fail(op string, id int64, err error) error {
	s.log.Error().Err(err).Str("op", op).Int64("event_id", id).Msg("store operation failed")
	return &PersistenceError{Op: op, Err: err}
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
