package seed

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestRunReusesExistingRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	for _, table := range []string{"colleges", "departments", "programs", "academic_years", "semesters", "sections"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM " + table)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(table + "-id"))
	}
	for _, username := range []string{"admin", "teacher", "student"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE username = $1")).
			WithArgs(username).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-" + username))
	}
	mock.ExpectCommit()

	result, err := Run(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Equal(t, "colleges-id", result.CollegeID)
	assert.Equal(t, "sections-id", result.SectionID)
	assert.Equal(t, "user-teacher", result.Users["teacher"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInsertsMissingRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM colleges WHERE code = $1")).
		WithArgs("ENG").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO colleges")).
		WithArgs(sqlmock.AnyArg(), "Engineering", "ENG").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM departments WHERE code = $1")).
		WithArgs("CS").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := Run(context.Background(), db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed lookup")
	require.NoError(t, mock.ExpectationsWereMet())
}
