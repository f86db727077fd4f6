package models

import "time"

// Enrollment links a student to a course.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RosterSource explains how a student reached a course roster.
type RosterSource string

const (
	RosterSourceEnrollment RosterSource = "ENROLLMENT"
	RosterSourceSection    RosterSource = "SECTION"
	RosterSourceBoth       RosterSource = "BOTH"
)

// RosterEntry is one student of the effective course roster.
type RosterEntry struct {
	UserID    string       `db:"user_id" json:"user_id"`
	Name      string       `db:"name" json:"name"`
	Username  string       `db:"username" json:"username"`
	SectionID *string      `db:"section_id" json:"section_id,omitempty"`
	Source    RosterSource `db:"source" json:"source"`
}

// StudentCourse is a course visible to a student along with how it reached them.
type StudentCourse struct {
	CourseListItem
	Source RosterSource `db:"source" json:"source"`
}
