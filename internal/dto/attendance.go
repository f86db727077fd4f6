package dto

import "github.com/noah-isme/campus-admin-api/internal/models"

// CreateSessionRequest opens an attendance session. Date is YYYY-MM-DD.
type CreateSessionRequest struct {
	Date  string `json:"date" validate:"required"`
	Title string `json:"title"`
}

// AttendanceEntry is one student's status within a save.
type AttendanceEntry struct {
	StudentID string                  `json:"studentId" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
	Remarks   string                  `json:"remarks"`
}

// SaveAttendanceRequest upserts records for a session.
type SaveAttendanceRequest struct {
	Records []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// SaveAttendanceResult reports a bulk save.
type SaveAttendanceResult struct {
	Saved      int      `json:"saved"`
	Rejected   int      `json:"rejected"`
	Errors     []string `json:"errors"`
	MoreErrors int      `json:"moreErrors"`
}

// MarkTeacherAttendanceRequest records whether a class was held.
type MarkTeacherAttendanceRequest struct {
	CourseID  string                  `json:"courseId" validate:"required"`
	TeacherID string                  `json:"teacherId"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
	Date      string                  `json:"date"`
	Notes     string                  `json:"notes"`
}
