package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

func TestReplaceSectionCoursesCascadesEnrollments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHierarchyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM sections WHERE id = $1 FOR UPDATE")).
		WithArgs("sec-1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sec-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM section_courses WHERE section_id = $1")).
		WithArgs("sec-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO section_courses")).
		WithArgs("sec-1", "c-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO section_courses")).
		WithArgs("sec-1", "c-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE section_id = $1 AND role = 'STUDENT'")).
		WithArgs("sec-1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1").AddRow("s-2"))
	// s-1 is already enrolled in c-1.
	mock.ExpectExec(regexp.QuoteMeta(insertEnrollmentIgnoreConflict)).
		WithArgs(sqlmock.AnyArg(), "s-1", "c-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertEnrollmentIgnoreConflict)).
		WithArgs(sqlmock.AnyArg(), "s-1", "c-2", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertEnrollmentIgnoreConflict)).
		WithArgs(sqlmock.AnyArg(), "s-2", "c-1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertEnrollmentIgnoreConflict)).
		WithArgs(sqlmock.AnyArg(), "s-2", "c-2", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	added, err := repo.ReplaceSectionCourses(context.Background(), "sec-1", []string{"c-1", "c-2"})
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSectionCoursesEmptySetOnlyClearsLinks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHierarchyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("sec-1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sec-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM section_courses")).WithArgs("sec-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	added, err := repo.ReplaceSectionCourses(context.Background(), "sec-1", nil)
	require.NoError(t, err)
	assert.Zero(t, added)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSectionCoursesRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHierarchyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("sec-1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sec-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM section_courses")).WithArgs("sec-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO section_courses")).WithArgs("sec-1", "c-x").
		WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	_, err := repo.ReplaceSectionCourses(context.Background(), "sec-1", []string{"c-x"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceSectionCoursesUnknownSection(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHierarchyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ReplaceSectionCourses(context.Background(), "missing", []string{"c-1"})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLoadFullAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHierarchyRepository(db)

	rows := sqlmock.NewRows([]string{"college_id", "college_name", "college_code", "department_id", "department_name", "department_code",
		"program_id", "program_name", "academic_year_id", "academic_year_name", "semester_id", "semester_name", "semester_number",
		"section_id", "section_name"}).
		AddRow("col-1", "Engineering", "ENG", "d-1", "Computer Science", "CS", "p-1", "BSc CS", "y-1", "2024/2025", "sem-1", "Semester 1", 1, "sec-1", "A").
		AddRow("col-1", "Engineering", "ENG", "d-2", "Physics", "PHY", nil, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE col.id = $1")).WithArgs("col-1").WillReturnRows(rows)

	result, err := repo.LoadFull(context.Background(), models.HierarchyFilter{CollegeID: "col-1"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Nil(t, result[1].SectionID)
	assert.Equal(t, "CS", result[0].DepartmentCode)
	require.NoError(t, mock.ExpectationsWereMet())
}
