package models

import "time"

// DashboardStats is the admin overview.
type DashboardStats struct {
	Users            map[UserRole]int `json:"users"`
	TotalUsers       int              `json:"total_users"`
	TotalCourses     int              `json:"total_courses"`
	PublishedCourses int              `json:"published_courses"`
	DraftCourses     int              `json:"draft_courses"`
	TodayPresent     int              `json:"today_teacher_present"`
	TodayAbsent      int              `json:"today_teacher_absent"`
	Colleges         int              `json:"colleges"`
	Departments      int              `json:"departments"`
	Programs         int              `json:"programs"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// RoleCount is a per-role user tally.
type RoleCount struct {
	Role  UserRole `db:"role"`
	Count int      `db:"count"`
}

// ChartPoint is a labelled value for dashboard charts.
type ChartPoint struct {
	Label string `db:"label" json:"label"`
	Value int    `db:"value" json:"value"`
}

// AttendanceTrendPoint is the teacher attendance tally of one day.
type AttendanceTrendPoint struct {
	Date    string `db:"date" json:"date"`
	Present int    `db:"present" json:"present"`
	Absent  int    `db:"absent" json:"absent"`
}

// RecentActivity lists the newest users and courses.
type RecentActivity struct {
	Users   []User   `json:"users"`
	Courses []Course `json:"courses"`
}

// SystemMetrics is a lightweight snapshot of process-level counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
