package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_SaveCases(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM parties WHERE case_row_id IN`).
		WithArgs("a.csv").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM cases WHERE source_file = \$1`).
		WithArgs("a.csv").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"cases"}, caseColumns).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"parties"}, partyColumns).WillReturnResult(3)
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_source_files"`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_source_files"}, []string{"path", "cases", "parties", "saved_at"}).
		WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "source_files"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := s.SaveCases(context.Background(), "a.csv", testCases())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCases_CopyError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM parties`).WithArgs("a.csv").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM cases`).WithArgs("a.csv").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"cases"}, caseColumns).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	_, err := s.SaveCases(context.Background(), "a.csv", testCases())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy cases")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveCases_DeleteError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM parties`).WithArgs("a.csv").
		WillReturnError(fmt.Errorf("relation does not exist"))
	mock.ExpectRollback()

	_, err := s.SaveCases(context.Background(), "a.csv", testCases())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete parties of a.csv")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountCases(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cases WHERE source_file = \$1`).
		WithArgs("a.csv").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	n, err := s.CountCases(context.Background(), "a.csv")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountCases_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("a.csv").
		WillReturnError(fmt.Errorf("timeout"))

	_, err := s.CountCases(context.Background(), "a.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count cases of a.csv")
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS cases`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT 1`).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CloseWithoutPool(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	assert.NoError(t, s.Close())
}
