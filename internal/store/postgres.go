package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/accident-cli/internal/db"
	"github.com/sells-group/accident-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS cases (
	id                TEXT PRIMARY KEY,
	case_id           TEXT NOT NULL,
	source_file       TEXT NOT NULL,
	content_hash      TEXT NOT NULL,
	occurred_at       TIMESTAMPTZ NOT NULL,
	location          TEXT NOT NULL,
	first_admin       TEXT NOT NULL,
	second_admin      TEXT NOT NULL,
	severity          INTEGER NOT NULL,
	lng               DOUBLE PRECISION,
	lat               DOUBLE PRECISION,
	gps               geometry(Point, 4326),
	death_in_24_hours INTEGER,
	death_in_30_days  INTEGER,
	injury            INTEGER,
	data              JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS parties (
	id               TEXT PRIMARY KEY,
	case_row_id      TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	party_id         TEXT NOT NULL,
	position         INTEGER NOT NULL,
	party_order      INTEGER NOT NULL,
	vehicle_code     TEXT NOT NULL,
	vehicle_category TEXT NOT NULL,
	data             JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS source_files (
	path     TEXT PRIMARY KEY,
	cases    INTEGER NOT NULL,
	parties  INTEGER NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_cases_source_file ON cases(source_file);
CREATE INDEX IF NOT EXISTS idx_cases_content_hash ON cases(content_hash);
CREATE INDEX IF NOT EXISTS idx_cases_occurred_at ON cases(occurred_at);
CREATE INDEX IF NOT EXISTS idx_cases_gps ON cases USING GIST (gps);
CREATE INDEX IF NOT EXISTS idx_parties_case_row_id ON parties(case_row_id);
`

// Ping verifies connectivity to the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	return eris.Wrap(s.pool.QueryRow(ctx, "SELECT 1").Scan(&one), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveCases replaces the rows of sourceFile with cases. Cases and parties
// are copied in one transaction; the source_files bookkeeping row is
// upserted afterwards.
func (s *PostgresStore) SaveCases(ctx context.Context, sourceFile string, cases []model.Case) (int64, error) {
	caseRows, partyRows, err := flatten(sourceFile, cases)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM parties WHERE case_row_id IN (SELECT id FROM cases WHERE source_file = $1)`, sourceFile,
	); err != nil {
		return 0, eris.Wrapf(err, "postgres: delete parties of %s", sourceFile)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cases WHERE source_file = $1`, sourceFile); err != nil {
		return 0, eris.Wrapf(err, "postgres: delete cases of %s", sourceFile)
	}

	n, err := db.CopyFrom(ctx, tx, "cases", caseColumns, caseRows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: copy cases")
	}
	if _, err := db.CopyFrom(ctx, tx, "parties", partyColumns, partyRows); err != nil {
		return 0, eris.Wrap(err, "postgres: copy parties")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit tx")
	}

	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "source_files",
		Columns:      []string{"path", "cases", "parties", "saved_at"},
		ConflictKeys: []string{"path"},
	}, [][]any{{sourceFile, len(caseRows), len(partyRows), now()}}); err != nil {
		return n, eris.Wrapf(err, "postgres: record source file %s", sourceFile)
	}

	zap.L().Debug("postgres: saved cases",
		zap.String("source_file", sourceFile),
		zap.Int64("cases", n),
		zap.Int("parties", len(partyRows)),
	)
	return n, nil
}

func (s *PostgresStore) CountCases(ctx context.Context, sourceFile string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases WHERE source_file = $1`, sourceFile).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: count cases of %s", sourceFile)
	}
	return n, nil
}
