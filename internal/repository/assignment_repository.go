package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

const assignmentColumns = `id, course_id, title, description, due_date, max_score, submission_type, created_at, updated_at`

const submissionColumns = `id, assignment_id, student_id, content, file_url, grade, feedback, submitted_at, graded_at`

// AssignmentRepository stores assignments and student submissions.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	const query = `INSERT INTO assignments (` + assignmentColumns + `)
VALUES (:id, :course_id, :title, :description, :due_date, :max_score, :submission_type, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// Delete removes an assignment and its submissions.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return expectAffected(res)
}

// ListByCourse returns a course's assignments ordered by due date, undated last.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE course_id = $1 ORDER BY due_date ASC NULLS LAST, created_at`
	assignments := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// UpsertSubmission stores a student's submission. A resubmission replaces the content and clears
// any previous grade.
func (r *AssignmentRepository) UpsertSubmission(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	submission.SubmittedAt = time.Now().UTC()
	submission.Grade = nil
	submission.Feedback = nil
	submission.GradedAt = nil
	query := `INSERT INTO submissions (id, assignment_id, student_id, content, file_url, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (assignment_id, student_id) DO UPDATE
SET content = EXCLUDED.content, file_url = EXCLUDED.file_url, submitted_at = EXCLUDED.submitted_at,
    grade = NULL, feedback = NULL, graded_at = NULL
RETURNING ` + submissionColumns
	if err := r.db.GetContext(ctx, submission, query, submission.ID, submission.AssignmentID, submission.StudentID,
		submission.Content, submission.FileURL, submission.SubmittedAt); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

// FindSubmission returns a submission by id.
func (r *AssignmentRepository) FindSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &submission, nil
}

// GradeSubmission records a grade and feedback.
func (r *AssignmentRepository) GradeSubmission(ctx context.Context, id string, grade float64, feedback *string) (*models.Submission, error) {
	query := `UPDATE submissions SET grade = $2, feedback = $3, graded_at = $4 WHERE id = $1 RETURNING ` + submissionColumns
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id, grade, feedback, time.Now().UTC()); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("grade submission: %w", err)
	}
	return &submission, nil
}

// SubmissionsByAssignment lists the submissions to one assignment.
func (r *AssignmentRepository) SubmissionsByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	submissions := []models.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE assignment_id = $1 ORDER BY submitted_at`
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// SubmissionsByCourse lists every submission to any assignment of a course.
func (r *AssignmentRepository) SubmissionsByCourse(ctx context.Context, courseID string) ([]models.Submission, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, s.content, s.file_url, s.grade, s.feedback, s.submitted_at, s.graded_at
FROM submissions s JOIN assignments a ON a.id = s.assignment_id WHERE a.course_id = $1`
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, courseID); err != nil {
		return nil, fmt.Errorf("list course submissions: %w", err)
	}
	return submissions, nil
}
