package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed migrations/001_init_history.sql
var initSQL string

// SQLite is a Log persisted in a SQLite database.
type SQLite struct {
	db         *sql.DB
	maxEntries int
	now        func() time.Time
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// the schema.
func OpenSQLite(ctx context.Context, dbPath string, maxEntries int) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, initSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migration: %w", err)
	}

	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &SQLite{db: db, maxEntries: maxEntries, now: time.Now}, nil
}

func (s *SQLite) Append(ctx context.Context, e Entry) (Entry, error) {
	e = prepare(e, s.now())

	voxels, err := json.Marshal(e.Voxels)
	if err != nil {
		return Entry{}, fmt.Errorf("encode voxels: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO history (id, prompt, name, voxels, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, e.ID, e.Prompt, e.Name, string(voxels), e.CreatedAt.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM history
        WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)
    `, s.maxEntries)
	if err != nil {
		return Entry{}, fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, prompt, name, voxels, created_at
        FROM history
        ORDER BY seq DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, prompt, name, voxels, created_at
        FROM history
        WHERE id = ?
    `, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

func (s *SQLite) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		voxels  string
		created int64
	)
	if err := row.Scan(&e.ID, &e.Prompt, &e.Name, &voxels, &created); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(voxels), &e.Voxels); err != nil {
		return Entry{}, fmt.Errorf("decode voxels of %s: %w", e.ID, err)
	}
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}
