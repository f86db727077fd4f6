package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

func TestStudentAttendanceReportAppliesFiltersAndCap(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	start := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (s.date >= $1 AND u.section_id = $2) ORDER BY r.created_at DESC LIMIT 1000")).
		WithArgs(models.CalendarDay(start), "sec-1").
		WillReturnRows(sqlmock.NewRows([]string{"record_id", "student_id", "student_name", "status"}).AddRow("r-1", "s-1", "Ana", "PRESENT"))

	rows, err := repo.StudentAttendance(context.Background(), models.StudentAttendanceFilter{StartDate: &start, SectionID: "sec-1"}, models.ReportRowCap)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AttendancePresent, rows[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherAttendanceReportOrdersByDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (ta.teacher_id = $1) ORDER BY ta.date DESC LIMIT 1000")).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "teacher_id", "status"}).AddRow("ta-1", "t-1", "PRESENT"))

	rows, err := repo.TeacherAttendance(context.Background(), models.TeacherAttendanceFilter{TeacherID: "t-1"}, models.ReportRowCap)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentStatsAttachesPrograms(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM departments d JOIN colleges col ON col.id = d.college_id")).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "name", "code", "college_name", "student_count", "course_count"}).
			AddRow("d-1", "Computer Science", "CS", "Engineering", 40, 6).
			AddRow("d-2", "Physics", "PHY", "Science", 0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM programs p LEFT JOIN academic_years ay ON ay.program_id = p.id AND ay.id = $1 WHERE p.department_id = ANY($2)")).
		WithArgs("y-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "program_id", "name", "academic_year_count"}).
			AddRow("d-1", "p-1", "BSc CS", 1))

	rows, err := repo.DepartmentStats(context.Background(), models.DepartmentFilter{AcademicYearID: "y-1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Programs, 1)
	assert.Equal(t, 1, rows[0].Programs[0].AcademicYearCount)
	assert.Empty(t, rows[1].Programs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSavedReportIsOwnerScoped(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM saved_reports WHERE id = $1 AND user_id = $2")).
		WithArgs("rep-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSavedReport(context.Background(), "rep-1", "intruder")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSavedReportDefaultsParameters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_reports")).WillReturnResult(sqlmock.NewResult(0, 1))

	report := &models.SavedReport{UserID: "u-1", Name: "Weekly", Type: models.ReportStudentAttendance}
	require.NoError(t, repo.CreateSavedReport(context.Background(), report))
	assert.NotEmpty(t, report.ID)
	assert.JSONEq(t, `{}`, string(report.Parameters))
}
