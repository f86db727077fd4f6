package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// ReportRepository runs the reporting aggregations and stores saved report definitions.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func dateRange(column string, start, end *time.Time) squirrel.And {
	where := squirrel.And{}
	if start != nil {
		where = append(where, squirrel.GtOrEq{column: models.CalendarDay(*start)})
	}
	if end != nil {
		where = append(where, squirrel.LtOrEq{column: models.CalendarDay(*end)})
	}
	return where
}

// StudentAttendance returns attendance records matching the filter, newest first, at most limit rows.
func (r *ReportRepository) StudentAttendance(ctx context.Context, filter models.StudentAttendanceFilter, limit int) ([]models.StudentAttendanceRow, error) {
	where := dateRange("s.date", filter.StartDate, filter.EndDate)
	if filter.DepartmentID != "" {
		where = append(where, squirrel.Eq{"u.department_id": filter.DepartmentID})
	}
	if filter.ProgramID != "" {
		where = append(where, squirrel.Eq{"ay.program_id": filter.ProgramID})
	}
	if filter.SemesterID != "" {
		where = append(where, squirrel.Eq{"sec.semester_id": filter.SemesterID})
	}
	if filter.SectionID != "" {
		where = append(where, squirrel.Eq{"u.section_id": filter.SectionID})
	}
	if filter.CourseID != "" {
		where = append(where, squirrel.Eq{"s.course_id": filter.CourseID})
	}
	if filter.StudentID != "" {
		where = append(where, squirrel.Eq{"r.student_id": filter.StudentID})
	}

	query, args, err := psql.Select(
		"r.id AS record_id", "r.student_id", "u.name AS student_name", "s.course_id", "c.title AS course_title",
		"s.date", "r.status", "sec.name AS section_name", "d.name AS department_name", "r.created_at",
	).
		From("attendance_records r").
		Join("attendance_sessions s ON s.id = r.session_id").
		Join("courses c ON c.id = s.course_id").
		Join("users u ON u.id = r.student_id").
		LeftJoin("sections sec ON sec.id = u.section_id").
		LeftJoin("semesters sem ON sem.id = sec.semester_id").
		LeftJoin("academic_years ay ON ay.id = sem.academic_year_id").
		LeftJoin("departments d ON d.id = u.department_id").
		Where(where).
		OrderBy("r.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build student attendance report: %w", err)
	}
	rows := []models.StudentAttendanceRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("student attendance report: %w", err)
	}
	return rows, nil
}

// TeacherAttendance returns coverage marks matching the filter, latest day first, at most limit rows.
func (r *ReportRepository) TeacherAttendance(ctx context.Context, filter models.TeacherAttendanceFilter, limit int) ([]models.TeacherAttendanceRow, error) {
	where := dateRange("ta.date", filter.StartDate, filter.EndDate)
	if filter.DepartmentID != "" {
		where = append(where, squirrel.Eq{"c.department_id": filter.DepartmentID})
	}
	if filter.CourseID != "" {
		where = append(where, squirrel.Eq{"ta.course_id": filter.CourseID})
	}
	if filter.TeacherID != "" {
		where = append(where, squirrel.Eq{"ta.teacher_id": filter.TeacherID})
	}

	query, args, err := psql.Select(
		"ta.id", "ta.teacher_id", "t.name AS teacher_name", "ta.course_id", "c.title AS course_title", "c.code AS course_code",
		"ta.date", "ta.status", "m.name AS marked_by_name", "ta.notes",
	).
		From("teacher_attendance ta").
		Join("users t ON t.id = ta.teacher_id").
		Join("courses c ON c.id = ta.course_id").
		Join("users m ON m.id = ta.marked_by_id").
		Where(where).
		OrderBy("ta.date DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build teacher attendance report: %w", err)
	}
	rows := []models.TeacherAttendanceRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("teacher attendance report: %w", err)
	}
	return rows, nil
}

// CourseEnrollment returns every matching course with its direct enrollment count, by title.
func (r *ReportRepository) CourseEnrollment(ctx context.Context, filter models.EnrollmentFilter) ([]models.CourseEnrollmentRow, error) {
	where := squirrel.And{}
	if filter.SemesterID != "" {
		where = append(where, squirrel.Eq{"c.semester_id": filter.SemesterID})
	}
	if filter.DepartmentID != "" {
		where = append(where, squirrel.Eq{"c.department_id": filter.DepartmentID})
	}
	if filter.ProgramID != "" {
		where = append(where, squirrel.Eq{"ay.program_id": filter.ProgramID})
	}

	query, args, err := psql.Select(
		"c.id AS course_id", "c.title", "c.code", "t.name AS teacher_name", "d.name AS department_name",
		"sem.name AS semester_name", "COUNT(e.id) AS enrollment_count",
	).
		From("courses c").
		Join("users t ON t.id = c.teacher_id").
		Join("departments d ON d.id = c.department_id").
		LeftJoin("semesters sem ON sem.id = c.semester_id").
		LeftJoin("academic_years ay ON ay.id = sem.academic_year_id").
		LeftJoin("enrollments e ON e.course_id = c.id").
		Where(where).
		GroupBy("c.id", "t.name", "d.name", "sem.name").
		OrderBy("c.title").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build enrollment report: %w", err)
	}
	rows := []models.CourseEnrollmentRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("enrollment report: %w", err)
	}
	return rows, nil
}

// DepartmentStats returns departments by name with headcounts and their programs' academic-year counts.
func (r *ReportRepository) DepartmentStats(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentStatsRow, error) {
	where := squirrel.And{}
	if filter.DepartmentID != "" {
		where = append(where, squirrel.Eq{"d.id": filter.DepartmentID})
	}
	query, args, err := psql.Select(
		"d.id AS department_id", "d.name", "d.code", "col.name AS college_name",
		"(SELECT COUNT(*) FROM users u WHERE u.department_id = d.id AND u.role = 'STUDENT' AND u.active = TRUE) AS student_count",
		"(SELECT COUNT(*) FROM courses c WHERE c.department_id = d.id) AS course_count",
	).
		From("departments d").
		Join("colleges col ON col.id = d.college_id").
		Where(where).
		OrderBy("d.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build department report: %w", err)
	}
	rows := []models.DepartmentStatsRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("department report: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.DepartmentID
	}
	yearJoin := "academic_years ay ON ay.program_id = p.id"
	var joinArgs []interface{}
	if filter.AcademicYearID != "" {
		yearJoin += " AND ay.id = ?"
		joinArgs = append(joinArgs, filter.AcademicYearID)
	}
	programQuery, programArgs, err := psql.Select("p.department_id", "p.id AS program_id", "p.name", "COUNT(ay.id) AS academic_year_count").
		From("programs p").
		LeftJoin(yearJoin, joinArgs...).
		Where("p.department_id = ANY(?)", pq.Array(ids)).
		GroupBy("p.id").
		OrderBy("p.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build program stats: %w", err)
	}
	var programs []models.ProgramYearStat
	if err := r.db.SelectContext(ctx, &programs, programQuery, programArgs...); err != nil {
		return nil, fmt.Errorf("program stats: %w", err)
	}
	byDepartment := make(map[string][]models.ProgramYearStat)
	for _, p := range programs {
		byDepartment[p.DepartmentID] = append(byDepartment[p.DepartmentID], p)
	}
	for i := range rows {
		rows[i].Programs = byDepartment[rows[i].DepartmentID]
		if rows[i].Programs == nil {
			rows[i].Programs = []models.ProgramYearStat{}
		}
	}
	return rows, nil
}

// CreateSavedReport stores a named report configuration.
func (r *ReportRepository) CreateSavedReport(ctx context.Context, report *models.SavedReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.CreatedAt = time.Now().UTC()
	if len(report.Parameters) == 0 {
		report.Parameters = []byte("{}")
	}
	const query = `INSERT INTO saved_reports (id, user_id, name, description, type, parameters, created_at)
VALUES (:id, :user_id, :name, :description, :type, :parameters, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create saved report: %w", err)
	}
	return nil
}

// ListSavedReports returns a user's saved reports, newest first.
func (r *ReportRepository) ListSavedReports(ctx context.Context, userID string) ([]models.SavedReport, error) {
	const query = `SELECT id, user_id, name, description, type, parameters, created_at FROM saved_reports WHERE user_id = $1 ORDER BY created_at DESC`
	reports := []models.SavedReport{}
	if err := r.db.SelectContext(ctx, &reports, query, userID); err != nil {
		return nil, fmt.Errorf("list saved reports: %w", err)
	}
	return reports, nil
}

// DeleteSavedReport deletes a report only when owned by the user; otherwise sql.ErrNoRows.
func (r *ReportRepository) DeleteSavedReport(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved report: %w", err)
	}
	return expectAffected(res)
}
