package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

const teacherAttendanceColumns = `id, course_id, teacher_id, date, status, marked_by_id, notes, created_at, updated_at`

// AttendanceRepository persists student sessions and teacher coverage marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateSession inserts an attendance session.
func (r *AttendanceRepository) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO attendance_sessions (id, course_id, date, title, created_at) VALUES (:id, :course_id, :date, :title, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create attendance session: %w", err)
	}
	return nil
}

// FindSession returns a session by id.
func (r *AttendanceRepository) FindSession(ctx context.Context, id string) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	if err := r.db.GetContext(ctx, &session, `SELECT id, course_id, date, title, created_at FROM attendance_sessions WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session and its records.
func (r *AttendanceRepository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance session: %w", err)
	}
	return expectAffected(res)
}

// ListSessions returns a course's sessions newest first with per-status counts.
func (r *AttendanceRepository) ListSessions(ctx context.Context, courseID string) ([]models.SessionSummary, error) {
	const query = `SELECT s.id, s.course_id, s.date, s.title, s.created_at,
COUNT(r.id) FILTER (WHERE r.status = 'PRESENT') AS present,
COUNT(r.id) FILTER (WHERE r.status = 'ABSENT') AS absent,
COUNT(r.id) FILTER (WHERE r.status = 'LATE') AS late,
COUNT(r.id) FILTER (WHERE r.status = 'EXCUSED') AS excused
FROM attendance_sessions s
LEFT JOIN attendance_records r ON r.session_id = s.id
WHERE s.course_id = $1
GROUP BY s.id
ORDER BY s.date DESC, s.created_at DESC`
	sessions := []models.SessionSummary{}
	if err := r.db.SelectContext(ctx, &sessions, query, courseID); err != nil {
		return nil, fmt.Errorf("list attendance sessions: %w", err)
	}
	return sessions, nil
}

// SessionRecords returns the records of one session.
func (r *AttendanceRepository) SessionRecords(ctx context.Context, sessionID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, session_id, student_id, status, remarks, created_at, updated_at FROM attendance_records WHERE session_id = $1`
	records := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, sessionID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// SaveRecords upserts the given records in one transaction; the latest write for a student wins.
func (r *AttendanceRepository) SaveRecords(ctx context.Context, sessionID string, records []models.AttendanceRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO attendance_records (id, session_id, student_id, status, remarks, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (session_id, student_id) DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, record := range records {
		if _, err = tx.ExecContext(ctx, query, uuid.NewString(), sessionID, record.StudentID, record.Status, record.Remarks, now); err != nil {
			return fmt.Errorf("upsert attendance record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

// UpsertTeacherAttendance records a coverage mark keyed on course, teacher and day.
func (r *AttendanceRepository) UpsertTeacherAttendance(ctx context.Context, mark *models.TeacherAttendance) error {
	now := time.Now().UTC()
	query := `INSERT INTO teacher_attendance (id, course_id, teacher_id, date, status, marked_by_id, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (course_id, teacher_id, date) DO UPDATE
SET status = EXCLUDED.status, marked_by_id = EXCLUDED.marked_by_id, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING ` + teacherAttendanceColumns
	if err := r.db.GetContext(ctx, mark, query, uuid.NewString(), mark.CourseID, mark.TeacherID, mark.Date,
		mark.Status, mark.MarkedByID, mark.Notes, now); err != nil {
		return fmt.Errorf("upsert teacher attendance: %w", err)
	}
	return nil
}

// LatestTeacherAttendance returns the newest coverage mark per course.
func (r *AttendanceRepository) LatestTeacherAttendance(ctx context.Context, courseIDs []string) (map[string]models.TeacherAttendance, error) {
	latest := make(map[string]models.TeacherAttendance)
	if len(courseIDs) == 0 {
		return latest, nil
	}
	query := `SELECT DISTINCT ON (course_id) ` + teacherAttendanceColumns + `
FROM teacher_attendance WHERE course_id = ANY($1)
ORDER BY course_id, date DESC, updated_at DESC`
	var marks []models.TeacherAttendance
	if err := r.db.SelectContext(ctx, &marks, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("latest teacher attendance: %w", err)
	}
	for _, m := range marks {
		latest[m.CourseID] = m
	}
	return latest, nil
}

// TeacherCountsOn tallies coverage marks for a calendar day. Missing counts ABSENT and LATE.
func (r *AttendanceRepository) TeacherCountsOn(ctx context.Context, day time.Time) (present, missing int, err error) {
	const query = `SELECT
COUNT(*) FILTER (WHERE status = 'PRESENT') AS present,
COUNT(*) FILTER (WHERE status IN ('ABSENT', 'LATE')) AS missing
FROM teacher_attendance WHERE date = $1`
	var counts struct {
		Present int `db:"present"`
		Missing int `db:"missing"`
	}
	if err = r.db.GetContext(ctx, &counts, query, models.CalendarDay(day)); err != nil {
		return 0, 0, fmt.Errorf("count teacher attendance: %w", err)
	}
	return counts.Present, counts.Missing, nil
}
