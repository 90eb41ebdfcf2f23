package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/lightbox-fetcher/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS image_fetches (
	link        TEXT PRIMARY KEY,
	page_url    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	file_name   TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	fail_reason TEXT NOT NULL DEFAULT '',
	bytes       BIGINT NOT NULL DEFAULT 0,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore keeps the latest fetch outcome per link.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing pool or mock.
func NewPostgresStoreWithDB(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the ledger table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create image_fetches: %w", err)
	}
	return nil
}

// SaveResult upserts the outcome of a fetch.
func (s *PostgresStore) SaveResult(ctx context.Context, res *domain.FetchResult) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO image_fetches (link, page_url, image_url, file_name, outcome, fail_reason, bytes, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (link) DO UPDATE SET
		   page_url = EXCLUDED.page_url, image_url = EXCLUDED.image_url, file_name = EXCLUDED.file_name,
		   outcome = EXCLUDED.outcome, fail_reason = EXCLUDED.fail_reason, bytes = EXCLUDED.bytes,
		   updated_at = EXCLUDED.updated_at`,
		res.Link, res.PageURL, res.ImageURL, res.FileName, string(res.Outcome), res.FailReason, res.Bytes, res.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("save result for %s: %w", res.Link, err)
	}
	return nil
}

// GetFetchStatus retrieves the latest recorded outcome of a link.
func (s *PostgresStore) GetFetchStatus(ctx context.Context, link string) (*domain.FetchStatusResponse, error) {
	var (
		status  domain.FetchStatusResponse
		outcome string
	)
	err := s.db.QueryRow(ctx,
		`SELECT link, image_url, file_name, outcome, fail_reason, bytes, updated_at FROM image_fetches WHERE link = $1`,
		link,
	).Scan(&status.Link, &status.ImageURL, &status.FileName, &outcome, &status.FailReason, &status.Bytes, &status.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	status.Outcome = domain.Outcome(outcome)
	return &status, nil
}
