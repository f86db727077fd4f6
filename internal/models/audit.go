package models

import "time"

// Audit actions written by services and the audit middleware.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionUserCreate     = "USER_CREATE"
	AuditActionUserUpdate     = "USER_UPDATE"
	AuditActionUserDelete     = "USER_DELETE"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionStudentImport  = "STUDENT_IMPORT"
	AuditActionSectionCourses = "SECTION_COURSES_UPDATE"
	AuditActionEnroll         = "ENROLL"
	AuditActionUnenroll       = "UNENROLL"
	AuditActionCourseDelete   = "COURSE_DELETE"
	AuditActionAttendanceSave = "ATTENDANCE_SAVE"
	AuditActionSessionDelete  = "ATTENDANCE_SESSION_DELETE"
	AuditActionTeacherMark    = "TEACHER_ATTENDANCE_MARK"
)

// Audited resources.
const (
	AuditResourceAuth              = "auth"
	AuditResourceUsers             = "users"
	AuditResourceCourses           = "courses"
	AuditResourceSections          = "sections"
	AuditResourceEnrollments       = "enrollments"
	AuditResourceAttendanceSession = "attendance_sessions"
	AuditResourceTeacherAttendance = "teacher_attendance"
)

// AuditLog is one row of the audit trail. OldValues and NewValues hold JSON snapshots.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
