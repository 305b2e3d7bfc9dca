package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/whichgame/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			kind TEXT PRIMARY KEY,
			revision TEXT NOT NULL,
			format TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Documents ---

// GetDocument returns the body stored under key, or nil if there is none
func (s *Store) GetDocument(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// PutDocument replaces the whole document stored under key
func (s *Store) PutDocument(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, key, string(body), time.Now())
	return err
}

// DeleteDocument removes the document stored under key
func (s *Store) DeleteDocument(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	return err
}

// --- Sources ---

// SaveSource stores the raw content of a data source, replacing the previous
// one of the same kind. A fresh revision is assigned.
func (s *Store) SaveSource(ctx context.Context, src *models.Source) error {
	return s.SaveSources(ctx, src)
}

// SaveSources stores several sources in one transaction
func (s *Store) SaveSources(ctx context.Context, srcs ...*models.Source) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO sources (kind, revision, format, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, src := range srcs {
		src.Revision = uuid.New().String()
		src.UpdatedAt = now
		if _, err := stmt.ExecContext(ctx, src.Kind, src.Revision, src.Format, src.Body, src.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSource returns the source of a kind, or nil if none was stored
func (s *Store) GetSource(ctx context.Context, kind string) (*models.Source, error) {
	var src models.Source
	err := s.db.QueryRowContext(ctx, `
		SELECT kind, revision, format, body, updated_at
		FROM sources WHERE kind = ?
	`, kind).Scan(&src.Kind, &src.Revision, &src.Format, &src.Body, &src.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// DeleteSource removes the source of a kind
func (s *Store) DeleteSource(ctx context.Context, kind string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE kind = ?`, kind)
	return err
}
