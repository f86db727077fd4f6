package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// DashboardRepository exposes read-optimised counts for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository instantiates the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// UserCountsByRole tallies active users per role.
func (r *DashboardRepository) UserCountsByRole(ctx context.Context) ([]models.RoleCount, error) {
	var counts []models.RoleCount
	if err := r.db.SelectContext(ctx, &counts, `SELECT role, COUNT(*) AS count FROM users WHERE active = TRUE GROUP BY role`); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	return counts, nil
}

// CourseCounts returns the total and published course counts.
func (r *DashboardRepository) CourseCounts(ctx context.Context) (total, published int, err error) {
	var counts struct {
		Total     int `db:"total"`
		Published int `db:"published"`
	}
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_published = TRUE) AS published FROM courses`
	if err = r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, fmt.Errorf("count courses: %w", err)
	}
	return counts.Total, counts.Published, nil
}

// HierarchyCounts returns how many colleges, departments and programs exist.
func (r *DashboardRepository) HierarchyCounts(ctx context.Context) (colleges, departments, programs int, err error) {
	var counts struct {
		Colleges    int `db:"colleges"`
		Departments int `db:"departments"`
		Programs    int `db:"programs"`
	}
	const query = `SELECT (SELECT COUNT(*) FROM colleges) AS colleges,
(SELECT COUNT(*) FROM departments) AS departments,
(SELECT COUNT(*) FROM programs) AS programs`
	if err = r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, 0, fmt.Errorf("count hierarchy: %w", err)
	}
	return counts.Colleges, counts.Departments, counts.Programs, nil
}

// StudentCountsByDepartment counts active students for each of the given departments.
func (r *DashboardRepository) StudentCountsByDepartment(ctx context.Context, departmentIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(departmentIDs))
	if len(departmentIDs) == 0 {
		return counts, nil
	}
	const query = `SELECT department_id, COUNT(*) AS count FROM users
WHERE role = 'STUDENT' AND active = TRUE AND department_id = ANY($1) GROUP BY department_id`
	var rows []struct {
		DepartmentID string `db:"department_id"`
		Count        int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(departmentIDs)); err != nil {
		return nil, fmt.Errorf("count students by department: %w", err)
	}
	for _, row := range rows {
		counts[row.DepartmentID] = row.Count
	}
	return counts, nil
}

// TeacherAttendanceTrend returns PRESENT and ABSENT tallies per day from since onwards, by date.
func (r *DashboardRepository) TeacherAttendanceTrend(ctx context.Context, since time.Time) ([]models.AttendanceTrendPoint, error) {
	const query = `SELECT TO_CHAR(date, 'YYYY-MM-DD') AS date,
COUNT(*) FILTER (WHERE status = 'PRESENT') AS present,
COUNT(*) FILTER (WHERE status = 'ABSENT') AS absent
FROM teacher_attendance WHERE date >= $1
GROUP BY date ORDER BY date`
	points := []models.AttendanceTrendPoint{}
	if err := r.db.SelectContext(ctx, &points, query, models.CalendarDay(since)); err != nil {
		return nil, fmt.Errorf("teacher attendance trend: %w", err)
	}
	return points, nil
}

// RecentUsers returns the newest users.
func (r *DashboardRepository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	return users, nil
}

// RecentCourses returns the newest courses.
func (r *DashboardRepository) RecentCourses(ctx context.Context, limit int) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses c ORDER BY c.created_at DESC LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("recent courses: %w", err)
	}
	return courses, nil
}
