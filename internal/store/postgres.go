package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using a pgx connection pool. Useful
// when several operators share one queue.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore from a connection string.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; tests use this with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lookup_requests (
	id               TEXT PRIMARY KEY,
	county           TEXT NOT NULL,
	county_id        INTEGER NOT NULL,
	uat              TEXT NOT NULL,
	uat_id           INTEGER NOT NULL,
	cadastral_number BIGINT NOT NULL,
	query_url        TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(county_id, uat_id, cadastral_number)
)`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, req model.LookupRequest) (*model.LookupRequest, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM lookup_requests WHERE county_id = $1 AND uat_id = $2 AND cadastral_number = $3)`,
		req.CountyID, req.UATID, req.CadastralNumber,
	).Scan(&exists)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: check duplicate")
	}
	if exists {
		return nil, ErrDuplicate
	}

	req.ID = uuid.New().String()
	req.CreatedAt = time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO lookup_requests (id, county, county_id, uat, uat_id, cadastral_number, query_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.County, req.CountyID, req.UAT, req.UATID, req.CadastralNumber, req.QueryURL, req.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert request")
	}

	return &req, nil
}

const postgresSelectRequests = `SELECT id, county, county_id, uat, uat_id, cadastral_number, query_url, created_at
FROM lookup_requests ORDER BY created_at, id`

func (s *PostgresStore) List(ctx context.Context) ([]model.LookupRequest, error) {
	rows, err := s.pool.Query(ctx, postgresSelectRequests)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list requests")
	}
	defer rows.Close()

	return scanPgxRequests(rows)
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM lookup_requests WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove request %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM lookup_requests`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: clear requests")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Consume(ctx context.Context) ([]model.LookupRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin consume")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	rows, err := tx.Query(ctx, postgresSelectRequests)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: select batch")
	}
	requests, err := scanPgxRequests(rows)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM lookup_requests`); err != nil {
		return nil, eris.Wrap(err, "postgres: delete batch")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit consume")
	}
	return requests, nil
}

func scanPgxRequests(rows pgx.Rows) ([]model.LookupRequest, error) {
	defer rows.Close()

	var requests []model.LookupRequest
	for rows.Next() {
		var r model.LookupRequest
		if err := rows.Scan(&r.ID, &r.County, &r.CountyID, &r.UAT, &r.UATID, &r.CadastralNumber, &r.QueryURL, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan request")
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate requests")
	}
	return requests, nil
}
