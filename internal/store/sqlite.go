package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the
// default driver; the queue lives in a single local file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lookup_requests (
	id               TEXT PRIMARY KEY,
	county           TEXT NOT NULL,
	county_id        INTEGER NOT NULL,
	uat              TEXT NOT NULL,
	uat_id           INTEGER NOT NULL,
	cadastral_number INTEGER NOT NULL,
	query_url        TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(county_id, uat_id, cadastral_number)
);

CREATE INDEX IF NOT EXISTS idx_lookup_requests_created_at ON lookup_requests(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Add(ctx context.Context, req model.LookupRequest) (*model.LookupRequest, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM lookup_requests WHERE county_id = ? AND uat_id = ? AND cadastral_number = ?)`,
		req.CountyID, req.UATID, req.CadastralNumber,
	).Scan(&exists)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: check duplicate")
	}
	if exists {
		return nil, ErrDuplicate
	}

	req.ID = uuid.New().String()
	req.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lookup_requests (id, county, county_id, uat, uat_id, cadastral_number, query_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.County, req.CountyID, req.UAT, req.UATID, req.CadastralNumber, req.QueryURL, req.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert request")
	}

	return &req, nil
}

const sqliteSelectRequests = `SELECT id, county, county_id, uat, uat_id, cadastral_number, query_url, created_at
FROM lookup_requests ORDER BY created_at, id`

func (s *SQLiteStore) List(ctx context.Context) ([]model.LookupRequest, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectRequests)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list requests")
	}
	defer rows.Close() //nolint:errcheck

	return scanSQLRequests(rows)
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookup_requests WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove request %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lookup_requests`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: clear requests")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) Consume(ctx context.Context) ([]model.LookupRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin consume")
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, sqliteSelectRequests)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select batch")
	}
	requests, err := scanSQLRequests(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lookup_requests`); err != nil {
		return nil, eris.Wrap(err, "sqlite: delete batch")
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit consume")
	}
	return requests, nil
}

func scanSQLRequests(rows *sql.Rows) ([]model.LookupRequest, error) {
	var requests []model.LookupRequest
	for rows.Next() {
		var r model.LookupRequest
		if err := rows.Scan(&r.ID, &r.County, &r.CountyID, &r.UAT, &r.UATID, &r.CadastralNumber, &r.QueryURL, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan request")
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate requests")
	}
	return requests, nil
}
