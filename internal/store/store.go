package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/learnpulse/internal/logger"

	// Postgres driver, selected by postgres:// DSNs.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	seq     *sequence
	log     *logger.Logger
}

// Option configures Open.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects to dsn and runs schema migration. DSNs starting with
// postgres:// or postgresql:// use Postgres; anything else is treated as
// a SQLite path or DSN with the recommended pragmas applied.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	driverName, dialectName := "sqlite", dialect.SQLite
	if IsPostgresDSN(dsn) {
		driverName, dialectName = "postgres", dialect.Postgres
	}

	if dialectName == dialect.SQLite {
		dsn = withPragmas(dsn)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s.db = db
	s.dialect = dialectName
	s.drv = entsql.OpenDB(dialectName, db)

	ctx := context.Background()
	if err := s.migrate(ctx); err != nil {
		s.drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	s.seq = newSequence(db, dialectName, nudgeEventStream)

	s.log.Debug("store opened", "dialect", dialectName)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo {
	return &userRepo{db: s.db, dialect: s.dialect}
}

// StatsRepo returns a StatsRepo backed by this store.
func (s *Store) StatsRepo() StatsRepo {
	return &statsRepo{db: s.db, dialect: s.dialect}
}

// NudgeEventRepo returns a NudgeEventRepo backed by this store.
func (s *Store) NudgeEventRepo() NudgeEventRepo {
	return &nudgeEventRepo{db: s.db, dialect: s.dialect, seq: s.seq}
}

// IsPostgresDSN reports whether dsn selects the Postgres backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqlitePragmas configure SQLite for optimal single-user performance.
// They are passed in the DSN so every pooled connection gets them.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// withPragmas appends the SQLite pragmas to dsn as modernc _pragma params.
func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LEARNPULSE_DB environment variable
// 2. $XDG_DATA_HOME/learnpulse/learnpulse.db
// 3. ~/.local/share/learnpulse/learnpulse.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEARNPULSE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "learnpulse", "learnpulse.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
// Postgres DSNs and in-memory SQLite DSNs are left alone.
func EnsureDir(path string) error {
	if IsPostgresDSN(path) || strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
