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

func TestCourseUpdateReplacesSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET title")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_schedules WHERE course_id = $1")).
		WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_schedules")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedules := []models.ClassSchedule{{DayOfWeek: models.Monday, StartTime: "08:00", EndTime: "09:40", Room: "R1"}}
	err := repo.Update(context.Background(), &models.Course{ID: "c-1", Title: "Algorithms", Code: "CS201"}, &schedules)
	require.NoError(t, err)
	assert.Equal(t, "c-1", schedules[0].CourseID)
	assert.Equal(t, models.ScheduleLecture, schedules[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateRollsBackWhenScheduleInsertFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET title")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_schedules")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_schedules")).WillReturnError(errors.New("check violation"))
	mock.ExpectRollback()

	schedules := []models.ClassSchedule{{DayOfWeek: models.Monday, StartTime: "10:00", EndTime: "09:00"}}
	err := repo.Update(context.Background(), &models.Course{ID: "c-1"}, &schedules)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateWithoutSchedulesKeepsThem(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET title")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), &models.Course{ID: "c-1"}, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateMissingCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET title")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Course{ID: "missing"}, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListFiltersPublished(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	published := true
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (c.department_id = $1 AND c.is_published = $2) ORDER BY c.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("d-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "teacher_name", "enrollment_count"}).AddRow("c-1", "Algorithms", "Dr. Ada", 12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c WHERE (c.department_id = $1 AND c.is_published = $2)")).
		WithArgs("d-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.CourseFilter{DepartmentID: "d-1", Published: &published})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 12, items[0].EnrollmentCount)
	assert.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
