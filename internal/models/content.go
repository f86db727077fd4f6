package models

import "time"

// Module is a unit of course content.
type Module struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Attachment is a stored file referenced by a module.
type Attachment struct {
	ID        string    `db:"id" json:"id"`
	ModuleID  string    `db:"module_id" json:"module_id"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ModuleDetail is a module with its attachments.
type ModuleDetail struct {
	Module
	Attachments []Attachment `json:"attachments"`
}

// SubmissionType restricts what a student may hand in.
type SubmissionType string

const (
	SubmissionOnlineText SubmissionType = "ONLINE_TEXT"
	SubmissionFileUpload SubmissionType = "FILE_UPLOAD"
	SubmissionBoth       SubmissionType = "BOTH"
	SubmissionNone       SubmissionType = "NONE"
)

// Valid reports whether the submission type is known.
func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionOnlineText, SubmissionFileUpload, SubmissionBoth, SubmissionNone:
		return true
	}
	return false
}

// DefaultMaxScore applies when an assignment omits max score.
const DefaultMaxScore = 100

// Assignment is graded course work.
type Assignment struct {
	ID             string         `db:"id" json:"id"`
	CourseID       string         `db:"course_id" json:"course_id"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	DueDate        *time.Time     `db:"due_date" json:"due_date,omitempty"`
	MaxScore       int            `db:"max_score" json:"max_score"`
	SubmissionType SubmissionType `db:"submission_type" json:"submission_type"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Submission is a student's hand-in for an assignment.
type Submission struct {
	ID           string     `db:"id" json:"id"`
	AssignmentID string     `db:"assignment_id" json:"assignment_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	Content      *string    `db:"content" json:"content,omitempty"`
	FileURL      *string    `db:"file_url" json:"file_url,omitempty"`
	Grade        *float64   `db:"grade" json:"grade,omitempty"`
	Feedback     *string    `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt  time.Time  `db:"submitted_at" json:"submitted_at"`
	GradedAt     *time.Time `db:"graded_at" json:"graded_at,omitempty"`
}

// GradebookCell is one student's result on one assignment.
type GradebookCell struct {
	AssignmentID string     `json:"assignment_id"`
	SubmissionID *string    `json:"submission_id,omitempty"`
	Grade        *float64   `json:"grade,omitempty"`
	Submitted    bool       `json:"submitted"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}

// GradebookRow is one roster student across all assignments.
type GradebookRow struct {
	StudentID string          `json:"student_id"`
	Name      string          `json:"name"`
	Username  string          `json:"username"`
	Cells     []GradebookCell `json:"cells"`
}

// Gradebook is the roster by assignment grade matrix of a course.
type Gradebook struct {
	CourseID    string         `json:"course_id"`
	Assignments []Assignment   `json:"assignments"`
	Rows        []GradebookRow `json:"rows"`
}
