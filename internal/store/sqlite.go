package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/accident-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
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
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cases (
	id                TEXT PRIMARY KEY,
	case_id           TEXT NOT NULL,
	source_file       TEXT NOT NULL,
	content_hash      TEXT NOT NULL,
	occurred_at       DATETIME NOT NULL,
	location          TEXT NOT NULL,
	first_admin       TEXT NOT NULL,
	second_admin      TEXT NOT NULL,
	severity          INTEGER NOT NULL,
	lng               REAL,
	lat               REAL,
	gps               BLOB,
	death_in_24_hours INTEGER,
	death_in_30_days  INTEGER,
	injury            INTEGER,
	data              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS parties (
	id               TEXT PRIMARY KEY,
	case_row_id      TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	party_id         TEXT NOT NULL,
	position         INTEGER NOT NULL,
	party_order      INTEGER NOT NULL,
	vehicle_code     TEXT NOT NULL,
	vehicle_category TEXT NOT NULL,
	data             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS source_files (
	path     TEXT PRIMARY KEY,
	cases    INTEGER NOT NULL,
	parties  INTEGER NOT NULL,
	saved_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_source_file ON cases(source_file);
CREATE INDEX IF NOT EXISTS idx_cases_content_hash ON cases(content_hash);
CREATE INDEX IF NOT EXISTS idx_cases_occurred_at ON cases(occurred_at);
CREATE INDEX IF NOT EXISTS idx_parties_case_row_id ON parties(case_row_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCases replaces the rows of sourceFile with cases in one transaction.
func (s *SQLiteStore) SaveCases(ctx context.Context, sourceFile string, cases []model.Case) (int64, error) {
	caseRows, partyRows, err := flatten(sourceFile, cases)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM parties WHERE case_row_id IN (SELECT id FROM cases WHERE source_file = ?)`, sourceFile,
	); err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete parties of %s", sourceFile)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cases WHERE source_file = ?`, sourceFile); err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete cases of %s", sourceFile)
	}

	if err := insertAll(ctx, tx, "cases", caseColumns, caseRows); err != nil {
		return 0, err
	}
	if err := insertAll(ctx, tx, "parties", partyColumns, partyRows); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO source_files (path, cases, parties, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET cases = excluded.cases, parties = excluded.parties, saved_at = excluded.saved_at`,
		sourceFile, len(caseRows), len(partyRows), now(),
	); err != nil {
		return 0, eris.Wrapf(err, "sqlite: record source file %s", sourceFile)
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}

	zap.L().Debug("sqlite: saved cases",
		zap.String("source_file", sourceFile),
		zap.Int("cases", len(caseRows)),
		zap.Int("parties", len(partyRows)),
	)
	return int64(len(caseRows)), nil
}

func (s *SQLiteStore) CountCases(ctx context.Context, sourceFile string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases WHERE source_file = ?`, sourceFile).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: count cases of %s", sourceFile)
	}
	return n, nil
}

func insertAll(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+table+" ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert into %s", table)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sqlite: insert into %s", table)
		}
	}
	return nil
}
