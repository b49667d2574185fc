package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"listkit/internal/infra/logx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteSource stores entries in a sqlite database.
type SQLiteSource struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ Source  = (*SQLiteSource)(nil)
	_ Mutator = (*SQLiteSource)(nil)
)

// OpenSQLite opens (creating if needed) the database at path and applies
// all pending migrations.
func OpenSQLite(path string) (*SQLiteSource, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	logx.Debugf("sqlite: opened %s", path)
	return &SQLiteSource{db: db, now: time.Now}, nil
}

// runMigrations applies the embedded migrations to db. The migrate instance
// is not closed because its sqlite driver would close db with it.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return err
	}
	defer src.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func (s *SQLiteSource) Close() error { return s.db.Close() }

// withTx runs fn in a transaction.
func (s *SQLiteSource) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLiteSource) Page(ctx context.Context, q PageQuery) ([]Entry, error) {
	q = q.Normalize()
	pattern := "%" + likeEscaper.Replace(q.Query) + "%"
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, title, detail, position, created_at FROM entries
	WHERE ? = '' OR title LIKE ? ESCAPE '\' OR detail LIKE ? ESCAPE '\'
	ORDER BY position, id
	LIMIT ? OFFSET ?`, q.Query, pattern, pattern, q.PerPage, q.offset())
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Detail, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

// Create inserts a new entry ahead of all others.
func (s *SQLiteSource) Create(ctx context.Context, title string) (Entry, error) {
	var created Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var pos int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MIN(position), 0) - 1 FROM entries`).Scan(&pos); err != nil {
			return err
		}
		e, err := newEntry(title, pos, s.now())
		if err != nil {
			return err
		}
		if err := insertEntry(ctx, tx, e); err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return created, nil
}

func (s *SQLiteSource) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed upserts entries in one transaction.
func (s *SQLiteSource) Seed(ctx context.Context, entries []Entry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return fmt.Errorf("seed %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func insertEntry(ctx context.Context, tx *sql.Tx, e Entry) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO entries(id, title, detail, position, created_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title=excluded.title,
		detail=excluded.detail,
		position=excluded.position,
		created_at=excluded.created_at;
	`, e.ID, e.Title, e.Detail, e.Position, e.CreatedAt.UTC())
	return err
}
