// Package store persists audit results in SQLite, keyed by content fingerprint.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ludo-technologies/citescan/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS audits (
	content_hash TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	score        REAL NOT NULL,
	grade        TEXT NOT NULL,
	gaps         TEXT NOT NULL,
	fixes        TEXT NOT NULL,
	benchmark    TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	expires_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audits_expires_at ON audits(expires_at);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// Store is the SQLite-backed audit cache
type Store struct {
	db *sql.DB
}

var _ domain.AuditCache = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, domain.NewStorageError("cache path is empty", nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewStorageError("failed to open cache database", err)
	}
	if path == ":memory:" {
		// each connection of an in-memory database is a separate database
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, domain.NewStorageError(fmt.Sprintf("failed to apply %q", pragma), err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, domain.NewStorageError("failed to create audits table", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the audit stored for hash, or nil when it is missing or expired at now
func (s *Store) Get(ctx context.Context, hash string, now time.Time) (*domain.AuditResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, score, grade, gaps, fixes, benchmark, created_at, expires_at
		FROM audits
		WHERE content_hash = ? AND expires_at > ?`,
		hash, now.UnixNano())

	var (
		result                 domain.AuditResult
		gaps, fixes, benchmark string
		createdAt, expiresAt   int64
	)
	err := row.Scan(&result.ID, &result.Score, &result.Grade, &gaps, &fixes, &benchmark, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("failed to read audit", err)
	}

	if err := json.Unmarshal([]byte(gaps), &result.Gaps); err != nil {
		return nil, domain.NewStorageError("corrupt gaps column", err)
	}
	if err := json.Unmarshal([]byte(fixes), &result.Fixes); err != nil {
		return nil, domain.NewStorageError("corrupt fixes column", err)
	}
	if err := json.Unmarshal([]byte(benchmark), &result.Benchmark); err != nil {
		return nil, domain.NewStorageError("corrupt benchmark column", err)
	}

	result.ContentHash = hash
	result.CreatedAt = time.Unix(0, createdAt).UTC()
	result.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return &result, nil
}

// Put stores the audit, replacing any previous audit of the same content
func (s *Store) Put(ctx context.Context, result *domain.AuditResult) error {
	if result == nil {
		return domain.NewStorageError("nil audit result", nil)
	}

	gaps, err := marshalColumn(result.Gaps, "[]")
	if err != nil {
		return domain.NewStorageError("failed to encode gaps", err)
	}
	fixes, err := marshalColumn(result.Fixes, "[]")
	if err != nil {
		return domain.NewStorageError("failed to encode fixes", err)
	}
	benchmark, err := json.Marshal(result.Benchmark)
	if err != nil {
		return domain.NewStorageError("failed to encode benchmark", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (content_hash, id, score, grade, gaps, fixes, benchmark, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			id = excluded.id,
			score = excluded.score,
			grade = excluded.grade,
			gaps = excluded.gaps,
			fixes = excluded.fixes,
			benchmark = excluded.benchmark,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		result.ContentHash, result.ID, result.Score, result.Grade,
		gaps, fixes, string(benchmark),
		result.CreatedAt.UnixNano(), result.ExpiresAt.UnixNano())
	if err != nil {
		return domain.NewStorageError("failed to store audit", err)
	}
	return nil
}

// PurgeExpired deletes audits expired at now and returns how many were removed
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, domain.NewStorageError("failed to purge expired audits", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStorageError("failed to count purged audits", err)
	}
	return n, nil
}

// marshalColumn encodes a slice, writing empty for nil so reads return a non-nil slice
func marshalColumn[T any](v []T, empty string) (string, error) {
	if v == nil {
		return empty, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
