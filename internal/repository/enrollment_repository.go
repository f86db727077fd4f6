package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

const insertEnrollmentIgnoreConflict = `INSERT INTO enrollments (id, user_id, course_id, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (user_id, course_id) DO NOTHING`

// AdmissionCheck decides whether a student may join a locked course given its current
// enrollment count and whether the student is already enrolled.
type AdmissionCheck func(course *models.Course, enrolled int, alreadyEnrolled bool) error

// EnrollmentRepository persists enrollments and computes effective rosters.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Admit locks the course row, runs check under the lock and inserts the enrollment when check
// passes. Concurrent admissions to one course serialize on the lock so the count stays exact.
// sql.ErrNoRows is returned for an unknown course; errors from check are returned unchanged.
func (r *EnrollmentRepository) Admit(ctx context.Context, courseID, userID string, check AdmissionCheck) (enrollment *models.Enrollment, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin admission: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var course models.Course
	if err = tx.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1 FOR UPDATE`, courseID); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("lock course: %w", err)
	}

	var count int
	if err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	var exists bool
	if err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2)`, courseID, userID); err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	if err = check(&course, count, exists); err != nil {
		return nil, err
	}

	enrollment = &models.Enrollment{ID: uuid.NewString(), UserID: userID, CourseID: courseID, CreatedAt: time.Now().UTC()}
	if _, err = tx.ExecContext(ctx, `INSERT INTO enrollments (id, user_id, course_id, created_at) VALUES ($1, $2, $3, $4)`,
		enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit admission: %w", err)
	}
	return enrollment, nil
}

// Delete removes a direct enrollment. sql.ErrNoRows is returned when none existed.
func (r *EnrollmentRepository) Delete(ctx context.Context, courseID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1 AND user_id = $2`, courseID, userID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return expectAffected(res)
}

const rosterQuery = `SELECT u.id AS user_id, u.name, u.username, u.section_id,
CASE
    WHEN BOOL_OR(src.kind = 'E') AND BOOL_OR(src.kind = 'S') THEN 'BOTH'
    WHEN BOOL_OR(src.kind = 'E') THEN 'ENROLLMENT'
    ELSE 'SECTION'
END AS source
FROM (
    SELECT e.user_id, 'E' AS kind FROM enrollments e WHERE e.course_id = $1
    UNION ALL
    SELECT su.id AS user_id, 'S' AS kind FROM section_courses sc
    JOIN users su ON su.section_id = sc.section_id AND su.role = 'STUDENT'
    WHERE sc.course_id = $1
) src
JOIN users u ON u.id = src.user_id
WHERE u.active = TRUE
GROUP BY u.id, u.name, u.username, u.section_id
ORDER BY u.name`

// Roster returns the effective roster of a course: direct enrollments plus members of linked
// sections, one entry per student.
func (r *EnrollmentRepository) Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	var roster []models.RosterEntry
	if err := r.db.SelectContext(ctx, &roster, rosterQuery, courseID); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

// OnRoster reports whether a student reaches a course through either path.
func (r *EnrollmentRepository) OnRoster(ctx context.Context, courseID, userID string) (bool, error) {
	const query = `SELECT EXISTS(
    SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2
    UNION ALL
    SELECT 1 FROM section_courses sc JOIN users u ON u.section_id = sc.section_id
    WHERE sc.course_id = $1 AND u.id = $2
)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, courseID, userID); err != nil {
		return false, fmt.Errorf("check roster membership: %w", err)
	}
	return ok, nil
}

// StudentCourses lists the courses a student sees through enrollment or their section.
func (r *EnrollmentRepository) StudentCourses(ctx context.Context, userID string) ([]models.StudentCourse, error) {
	query := `SELECT ` + courseListColumns + `,
CASE
    WHEN BOOL_OR(src.kind = 'E') AND BOOL_OR(src.kind = 'S') THEN 'BOTH'
    WHEN BOOL_OR(src.kind = 'E') THEN 'ENROLLMENT'
    ELSE 'SECTION'
END AS source
FROM (
    SELECT e.course_id, 'E' AS kind FROM enrollments e WHERE e.user_id = $1
    UNION ALL
    SELECT sc.course_id, 'S' AS kind FROM section_courses sc
    JOIN users su ON su.section_id = sc.section_id
    WHERE su.id = $1
) src
JOIN courses c ON c.id = src.course_id
JOIN users t ON t.id = c.teacher_id
JOIN departments d ON d.id = c.department_id
LEFT JOIN semesters sem ON sem.id = c.semester_id
GROUP BY c.id, t.name, d.name, d.code, sem.name
ORDER BY c.title`
	var courses []models.StudentCourse
	if err := r.db.SelectContext(ctx, &courses, query, userID); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return courses, nil
}

// EnrollIntoSectionCourses enrolls a user into every course linked to a section, skipping
// existing enrollments. It returns the number created.
func (r *EnrollmentRepository) EnrollIntoSectionCourses(ctx context.Context, userID, sectionID string) (int, error) {
	var courseIDs []string
	if err := r.db.SelectContext(ctx, &courseIDs, `SELECT course_id FROM section_courses WHERE section_id = $1`, sectionID); err != nil {
		return 0, fmt.Errorf("list section courses: %w", err)
	}
	added := 0
	now := time.Now().UTC()
	for _, courseID := range courseIDs {
		res, err := r.db.ExecContext(ctx, insertEnrollmentIgnoreConflict, uuid.NewString(), userID, courseID, now)
		if err != nil {
			return added, fmt.Errorf("auto enroll: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added += int(n)
		}
	}
	return added, nil
}
