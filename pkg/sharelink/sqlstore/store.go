// Package sqlstore provides a sharelink.Store backed by SQLite through sqlx.
// The response counter is incremented with a guarded UPDATE so quota
// enforcement happens inside the database, not in application memory.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-intake/pkg/sharelink"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS share_links (
	id               TEXT PRIMARY KEY,
	form_id          TEXT NOT NULL,
	token            TEXT NOT NULL,
	password_hash    TEXT NOT NULL DEFAULT '',
	require_password INTEGER NOT NULL DEFAULT 0,
	expires_at       TIMESTAMP,
	max_responses    INTEGER NOT NULL DEFAULT 0,
	response_count   INTEGER NOT NULL DEFAULT 0,
	is_active        INTEGER NOT NULL DEFAULT 1,
	created_by       TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS share_links_form_token ON share_links (form_id, token);
`

// Store persists links in a SQLite database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn and ensures the schema exists.
// Use ":memory:" for an ephemeral store.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: connect: %w", err)
	}
	store := New(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection. The caller owns the connection's
// lifecycle and schema.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the share_links table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("sqlstore: ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, link sharelink.Link) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO share_links (
			id, form_id, token, password_hash, require_password,
			expires_at, max_responses, response_count, is_active,
			created_by, created_at
		) VALUES (
			:id, :form_id, :token, :password_hash, :require_password,
			:expires_at, :max_responses, :response_count, :is_active,
			:created_by, :created_at
		)`, link)
	if err != nil {
		return fmt.Errorf("sqlstore: insert link: %w", err)
	}
	return nil
}

func (s *Store) GetByToken(ctx context.Context, formID, token string) (sharelink.Link, error) {
	var link sharelink.Link
	err := s.db.GetContext(ctx, &link,
		`SELECT * FROM share_links WHERE form_id = ? AND token = ?`, formID, token)
	if errors.Is(err, sql.ErrNoRows) {
		return sharelink.Link{}, sharelink.ErrNotFound
	}
	if err != nil {
		return sharelink.Link{}, fmt.Errorf("sqlstore: get by token: %w", err)
	}
	return link, nil
}

func (s *Store) GetByID(ctx context.Context, formID, linkID string) (sharelink.Link, error) {
	var link sharelink.Link
	err := s.db.GetContext(ctx, &link,
		`SELECT * FROM share_links WHERE form_id = ? AND id = ?`, formID, linkID)
	if errors.Is(err, sql.ErrNoRows) {
		return sharelink.Link{}, sharelink.ErrNotFound
	}
	if err != nil {
		return sharelink.Link{}, fmt.Errorf("sqlstore: get by id: %w", err)
	}
	return link, nil
}

func (s *Store) List(ctx context.Context, formID string) ([]sharelink.Link, error) {
	var links []sharelink.Link
	err := s.db.SelectContext(ctx, &links,
		`SELECT * FROM share_links WHERE form_id = ? ORDER BY created_at DESC`, formID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list links: %w", err)
	}
	return links, nil
}

func (s *Store) SetActive(ctx context.Context, formID, linkID string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE share_links SET is_active = ? WHERE form_id = ? AND id = ?`,
		active, formID, linkID)
	if err != nil {
		return fmt.Errorf("sqlstore: set active: %w", err)
	}
	return requireRow(res)
}

func (s *Store) Delete(ctx context.Context, formID, linkID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM share_links WHERE form_id = ? AND id = ?`, formID, linkID)
	if err != nil {
		return fmt.Errorf("sqlstore: delete link: %w", err)
	}
	return requireRow(res)
}

// Increment performs the quota check and the counter bump in one guarded
// UPDATE, so concurrent submissions cannot push the counter past the quota.
func (s *Store) Increment(ctx context.Context, linkID string) (sharelink.Link, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE share_links
		SET response_count = response_count + 1
		WHERE id = ? AND (max_responses <= 0 OR response_count < max_responses)`,
		linkID)
	if err != nil {
		return sharelink.Link{}, fmt.Errorf("sqlstore: increment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return sharelink.Link{}, fmt.Errorf("sqlstore: increment: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from an exhausted quota.
		var exists int
		err := s.db.GetContext(ctx, &exists,
			`SELECT COUNT(1) FROM share_links WHERE id = ?`, linkID)
		if err != nil {
			return sharelink.Link{}, fmt.Errorf("sqlstore: increment: %w", err)
		}
		if exists == 0 {
			return sharelink.Link{}, sharelink.ErrNotFound
		}
		return sharelink.Link{}, sharelink.ErrQuotaExceeded
	}

	var link sharelink.Link
	if err := s.db.GetContext(ctx, &link, `SELECT * FROM share_links WHERE id = ?`, linkID); err != nil {
		return sharelink.Link{}, fmt.Errorf("sqlstore: increment: %w", err)
	}
	return link, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: rows affected: %w", err)
	}
	if affected == 0 {
		return sharelink.ErrNotFound
	}
	return nil
}
