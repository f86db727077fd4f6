package models

import (
	"strings"
	"time"
)

// DayOfWeek is the weekday a class schedule occurs on.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// DayOfWeekFor maps a time to the schedule weekday name.
func DayOfWeekFor(t time.Time) DayOfWeek {
	return DayOfWeek(strings.ToUpper(t.Weekday().String()))
}

// ScheduleType classifies a class meeting.
type ScheduleType string

const (
	ScheduleLecture  ScheduleType = "LECTURE"
	ScheduleLab      ScheduleType = "LAB"
	ScheduleTutorial ScheduleType = "TUTORIAL"
)

// Course is a teachable unit owned by a teacher within a department.
type Course struct {
	ID            string     `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Code          string     `db:"code" json:"code"`
	Description   string     `db:"description" json:"description"`
	TeacherID     string     `db:"teacher_id" json:"teacher_id"`
	DepartmentID  string     `db:"department_id" json:"department_id"`
	SemesterID    *string    `db:"semester_id" json:"semester_id,omitempty"`
	IsPublished   bool       `db:"is_published" json:"is_published"`
	EnrollmentKey *string    `db:"enrollment_key" json:"-"`
	MaxStudents   *int       `db:"max_students" json:"max_students,omitempty"`
	Image         *string    `db:"image" json:"image,omitempty"`
	StartDate     *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// HasEnrollmentKey reports whether self-enrollment requires a key.
func (c Course) HasEnrollmentKey() bool {
	return c.EnrollmentKey != nil && *c.EnrollmentKey != ""
}

// ClassSchedule is a recurring weekly meeting of a course.
type ClassSchedule struct {
	ID        string       `db:"id" json:"id"`
	CourseID  string       `db:"course_id" json:"course_id"`
	DayOfWeek DayOfWeek    `db:"day_of_week" json:"day_of_week"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	Room      string       `db:"room" json:"room"`
	Type      ScheduleType `db:"type" json:"type"`
}

// CourseListItem is a course row joined with display names and enrollment count.
type CourseListItem struct {
	Course
	TeacherName     string  `db:"teacher_name" json:"teacher_name"`
	DepartmentName  string  `db:"department_name" json:"department_name"`
	DepartmentCode  string  `db:"department_code" json:"department_code"`
	SemesterName    *string `db:"semester_name" json:"semester_name,omitempty"`
	EnrollmentCount int     `db:"enrollment_count" json:"enrollment_count"`
}

// CourseDetail aggregates everything shown on a course page.
type CourseDetail struct {
	CourseListItem
	RequiresKey bool            `json:"requires_key"`
	Schedules   []ClassSchedule `json:"schedules"`
	Modules     []ModuleDetail  `json:"modules"`
	Assignments []Assignment    `json:"assignments"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	TeacherID    string
	DepartmentID string
	SemesterID   string
	Published    *bool
	Search       string
	Page         int
	PageSize     int
}

// LiveClass is a schedule happening today with its course and teacher.
type LiveClass struct {
	ClassSchedule
	CourseTitle string `db:"course_title" json:"course_title"`
	CourseCode  string `db:"course_code" json:"course_code"`
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// ManagedCourse is the class manager view of a course.
type ManagedCourse struct {
	CourseListItem
	Schedules      []ClassSchedule    `json:"schedules"`
	LastAttendance *TeacherAttendance `json:"last_attendance,omitempty"`
}
