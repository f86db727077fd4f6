package dto

import (
	"io"
	"time"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// ScheduleInput is one weekly meeting in a course payload.
type ScheduleInput struct {
	DayOfWeek models.DayOfWeek    `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime string              `json:"startTime" validate:"required,len=5"`
	EndTime   string              `json:"endTime" validate:"required,len=5"`
	Room      string              `json:"room"`
	Type      models.ScheduleType `json:"type" validate:"omitempty,oneof=LECTURE LAB TUTORIAL"`
}

// CreateCourseRequest creates a course with optional schedules.
type CreateCourseRequest struct {
	Title         string          `json:"title" validate:"required"`
	Code          string          `json:"code" validate:"required"`
	Description   string          `json:"description"`
	TeacherID     string          `json:"teacherId" validate:"required"`
	DepartmentID  string          `json:"departmentId" validate:"required"`
	SemesterID    string          `json:"semesterId" validate:"required"`
	StartDate     *time.Time      `json:"startDate"`
	EndDate       *time.Time      `json:"endDate"`
	IsPublished   bool            `json:"isPublished"`
	EnrollmentKey *string         `json:"enrollmentKey"`
	MaxStudents   *int            `json:"maxStudents" validate:"omitempty,min=1"`
	Image         *string         `json:"image"`
	Schedules     []ScheduleInput `json:"schedules" validate:"dive"`
}

// UpdateCourseRequest patches a course. A non-nil Schedules (even empty) replaces all schedules.
type UpdateCourseRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1"`
	Code          *string          `json:"code" validate:"omitempty,min=1"`
	Description   *string          `json:"description"`
	TeacherID     *string          `json:"teacherId"`
	DepartmentID  *string          `json:"departmentId"`
	SemesterID    *string          `json:"semesterId"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	IsPublished   *bool            `json:"isPublished"`
	EnrollmentKey *string          `json:"enrollmentKey"`
	MaxStudents   *int             `json:"maxStudents" validate:"omitempty,min=1"`
	Image         *string          `json:"image"`
	Schedules     *[]ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}

// EnrollRequest is the self or admin enrollment payload.
type EnrollRequest struct {
	EnrollmentKey string `json:"enrollmentKey"`
	StudentID     string `json:"studentId"`
}

// FileUpload is an uploaded file handed to services independent of the transport.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// CreateModuleRequest creates a module with attachments.
type CreateModuleRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// CreateAssignmentRequest creates an assignment.
type CreateAssignmentRequest struct {
	Title          string                `json:"title" validate:"required"`
	Description    string                `json:"description"`
	DueDate        *time.Time            `json:"dueDate"`
	MaxScore       *int                  `json:"maxScore" validate:"omitempty,min=1"`
	SubmissionType models.SubmissionType `json:"submissionType"`
}

// SubmitAssignmentRequest carries a student's text answer; the file travels separately.
type SubmitAssignmentRequest struct {
	Content string `json:"content" form:"content"`
}

// GradeSubmissionRequest grades a submission.
type GradeSubmissionRequest struct {
	Grade    *float64 `json:"grade" validate:"required"`
	Feedback string   `json:"feedback"`
}
