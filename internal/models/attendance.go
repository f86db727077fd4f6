package models

import "time"

// AttendanceStatus marks presence for students and teachers alike.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether the status is one of the four known values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceSession is one class meeting for which student attendance is taken.
type AttendanceSession struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Date      time.Time `db:"date" json:"date"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecord is a student's status in a session.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	SessionID string           `db:"session_id" json:"session_id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Remarks   string           `db:"remarks" json:"remarks"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// SessionSummary is a session with per-status record counts.
type SessionSummary struct {
	AttendanceSession
	Present int `db:"present" json:"present"`
	Absent  int `db:"absent" json:"absent"`
	Late    int `db:"late" json:"late"`
	Excused int `db:"excused" json:"excused"`
}

// SessionDetail is a session with its records and the roster they were taken against.
type SessionDetail struct {
	AttendanceSession
	Records []AttendanceRecord `json:"records"`
	Roster  []RosterEntry      `json:"roster"`
}

// TeacherAttendance records whether a teacher held a class on a given day.
type TeacherAttendance struct {
	ID         string           `db:"id" json:"id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	TeacherID  string           `db:"teacher_id" json:"teacher_id"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	MarkedByID string           `db:"marked_by_id" json:"marked_by_id"`
	Notes      string           `db:"notes" json:"notes"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// ClassManagerDashboard summarises today's teaching coverage.
type ClassManagerDashboard struct {
	PublishedCourses int       `json:"published_courses"`
	TodaySchedules   int       `json:"today_schedules"`
	TeachersPresent  int       `json:"teachers_present"`
	TeachersMissing  int       `json:"teachers_missing"`
	Day              DayOfWeek `json:"day"`
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
