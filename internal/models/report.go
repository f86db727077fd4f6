package models

import (
	"encoding/json"
	"time"
)

// ReportType enumerates the supported tabular reports.
type ReportType string

const (
	ReportStudentAttendance ReportType = "STUDENT_ATTENDANCE"
	ReportTeacherAttendance ReportType = "TEACHER_ATTENDANCE"
	ReportCourseEnrollment  ReportType = "COURSE_ENROLLMENT"
	ReportDepartmentStats   ReportType = "DEPARTMENT_STATS"
)

// Valid reports whether the type is known.
func (t ReportType) Valid() bool {
	switch t {
	case ReportStudentAttendance, ReportTeacherAttendance, ReportCourseEnrollment, ReportDepartmentStats:
		return true
	}
	return false
}

// ReportFormat is an export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportRowCap bounds the rows fetched by attendance reports; stats cover only that page.
const ReportRowCap = 1000

// StudentAttendanceFilter scopes the student attendance report.
type StudentAttendanceFilter struct {
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	DepartmentID string     `json:"department_id,omitempty"`
	ProgramID    string     `json:"program_id,omitempty"`
	SemesterID   string     `json:"semester_id,omitempty"`
	SectionID    string     `json:"section_id,omitempty"`
	CourseID     string     `json:"course_id,omitempty"`
	StudentID    string     `json:"student_id,omitempty"`
}

// TeacherAttendanceFilter scopes the teacher attendance report.
type TeacherAttendanceFilter struct {
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	DepartmentID string     `json:"department_id,omitempty"`
	CourseID     string     `json:"course_id,omitempty"`
	TeacherID    string     `json:"teacher_id,omitempty"`
}

// EnrollmentFilter scopes the course enrollment report.
type EnrollmentFilter struct {
	SemesterID   string `json:"semester_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	ProgramID    string `json:"program_id,omitempty"`
}

// DepartmentFilter scopes the department statistics report.
type DepartmentFilter struct {
	DepartmentID   string `json:"department_id,omitempty"`
	AcademicYearID string `json:"academic_year_id,omitempty"`
}

// StudentAttendanceRow is one attendance record with its context.
type StudentAttendanceRow struct {
	RecordID       string           `db:"record_id" json:"record_id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	StudentName    string           `db:"student_name" json:"student_name"`
	CourseID       string           `db:"course_id" json:"course_id"`
	CourseTitle    string           `db:"course_title" json:"course_title"`
	Date           time.Time        `db:"date" json:"date"`
	Status         AttendanceStatus `db:"status" json:"status"`
	SectionName    *string          `db:"section_name" json:"section_name,omitempty"`
	DepartmentName *string          `db:"department_name" json:"department_name,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// StudentAttendanceStats summarises fetched student attendance rows.
type StudentAttendanceStats struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// StudentAttendanceReport is the student attendance report payload.
type StudentAttendanceReport struct {
	Rows      []StudentAttendanceRow `json:"rows"`
	Stats     StudentAttendanceStats `json:"stats"`
	Truncated bool                   `json:"truncated"`
}

// TeacherAttendanceRow is one teacher mark with its context.
type TeacherAttendanceRow struct {
	ID           string           `db:"id" json:"id"`
	TeacherID    string           `db:"teacher_id" json:"teacher_id"`
	TeacherName  string           `db:"teacher_name" json:"teacher_name"`
	CourseID     string           `db:"course_id" json:"course_id"`
	CourseTitle  string           `db:"course_title" json:"course_title"`
	CourseCode   string           `db:"course_code" json:"course_code"`
	Date         time.Time        `db:"date" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
	MarkedByName string           `db:"marked_by_name" json:"marked_by_name"`
	Notes        string           `db:"notes" json:"notes"`
}

// TeacherAttendanceStats summarises fetched teacher attendance rows.
type TeacherAttendanceStats struct {
	TotalClasses int     `json:"total_classes"`
	Held         int     `json:"held"`
	Absent       int     `json:"absent"`
	CoverageRate float64 `json:"coverage_rate"`
}

// TeacherAttendanceReport is the teacher attendance report payload.
type TeacherAttendanceReport struct {
	Rows      []TeacherAttendanceRow `json:"rows"`
	Stats     TeacherAttendanceStats `json:"stats"`
	Truncated bool                   `json:"truncated"`
}

// CourseEnrollmentRow is a course with its enrollment count.
type CourseEnrollmentRow struct {
	CourseID        string  `db:"course_id" json:"course_id"`
	Title           string  `db:"title" json:"title"`
	Code            string  `db:"code" json:"code"`
	TeacherName     string  `db:"teacher_name" json:"teacher_name"`
	DepartmentName  string  `db:"department_name" json:"department_name"`
	SemesterName    *string `db:"semester_name" json:"semester_name,omitempty"`
	EnrollmentCount int     `db:"enrollment_count" json:"enrollment_count"`
}

// EnrollmentStats summarises the enrollment report.
type EnrollmentStats struct {
	TotalCourses      int     `json:"total_courses"`
	TotalEnrollments  int     `json:"total_enrollments"`
	AverageEnrollment float64 `json:"average_enrollment"`
}

// EnrollmentReport is the course enrollment report payload.
type EnrollmentReport struct {
	Rows  []CourseEnrollmentRow `json:"rows"`
	Stats EnrollmentStats       `json:"stats"`
}

// DepartmentStatsRow is one department with its headcounts.
type DepartmentStatsRow struct {
	DepartmentID string            `db:"department_id" json:"department_id"`
	Name         string            `db:"name" json:"name"`
	Code         string            `db:"code" json:"code"`
	CollegeName  string            `db:"college_name" json:"college_name"`
	StudentCount int               `db:"student_count" json:"student_count"`
	CourseCount  int               `db:"course_count" json:"course_count"`
	Programs     []ProgramYearStat `db:"-" json:"programs"`
}

// ProgramYearStat is a program with its academic-year count.
type ProgramYearStat struct {
	DepartmentID      string `db:"department_id" json:"-"`
	ProgramID         string `db:"program_id" json:"program_id"`
	Name              string `db:"name" json:"name"`
	AcademicYearCount int    `db:"academic_year_count" json:"academic_year_count"`
}

// DepartmentReport is the department statistics payload.
type DepartmentReport struct {
	Rows             []DepartmentStatsRow `json:"rows"`
	TotalDepartments int                  `json:"total_departments"`
}

// SavedReport is a named report configuration owned by a user.
type SavedReport struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Type        ReportType      `db:"type" json:"type"`
	Parameters  json.RawMessage `db:"parameters" json:"parameters"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
