package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

const (
	dashboardStatsKey     = "dashboard:stats"
	enrollmentChartLimit  = 10
	attendanceTrendDays   = 7
	recentActivityEntries = 5
)

type dashboardRepository interface {
	UserCountsByRole(ctx context.Context) ([]models.RoleCount, error)
	CourseCounts(ctx context.Context) (total, published int, err error)
	HierarchyCounts(ctx context.Context) (colleges, departments, programs int, err error)
	StudentCountsByDepartment(ctx context.Context, departmentIDs []string) (map[string]int, error)
	TeacherAttendanceTrend(ctx context.Context, since time.Time) ([]models.AttendanceTrendPoint, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
	RecentCourses(ctx context.Context, limit int) ([]models.Course, error)
}

type dailyCoverage interface {
	TeacherCountsOn(ctx context.Context, day time.Time) (present, missing int, err error)
}

type departmentSource interface {
	LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error)
}

// DashboardService composes the admin dashboard.
type DashboardService struct {
	repo      dashboardRepository
	coverage  dailyCoverage
	hierarchy departmentSource
	cache     resultCache
	metrics   *MetricsService
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo dashboardRepository, coverage dailyCoverage, hierarchy departmentSource, cache resultCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:      repo,
		coverage:  coverage,
		hierarchy: hierarchy,
		cache:     cache,
		metrics:   metrics,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Stats returns headline counts. The boolean reports whether they came from cache.
func (s *DashboardService) Stats(ctx context.Context, actor models.Actor) (*models.DashboardStats, bool, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		var cached models.DashboardStats
		if hit, err := s.cache.Get(ctx, dashboardStatsKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	roles, err := s.repo.UserCountsByRole(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to count users")
	}
	stats := &models.DashboardStats{Users: map[models.UserRole]int{}, GeneratedAt: s.now().UTC()}
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleTeacher, models.RoleStudent, models.RoleClassManager} {
		stats.Users[role] = 0
	}
	for _, rc := range roles {
		stats.Users[rc.Role] = rc.Count
		stats.TotalUsers += rc.Count
	}

	if stats.TotalCourses, stats.PublishedCourses, err = s.repo.CourseCounts(ctx); err != nil {
		return nil, false, appErrors.Internal(err, "failed to count courses")
	}
	stats.DraftCourses = stats.TotalCourses - stats.PublishedCourses

	if stats.TodayPresent, stats.TodayAbsent, err = s.coverage.TeacherCountsOn(ctx, models.CalendarDay(s.now())); err != nil {
		return nil, false, appErrors.Internal(err, "failed to count teacher attendance")
	}
	if stats.Colleges, stats.Departments, stats.Programs, err = s.repo.HierarchyCounts(ctx); err != nil {
		return nil, false, appErrors.Internal(err, "failed to count hierarchy")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardStatsKey, stats, s.ttl); err != nil {
			s.logger.Debug("dashboard cache write skipped", zap.Error(err))
		}
	}
	return stats, false, nil
}

// EnrollmentChart returns student counts for the first departments, labelled by code.
func (s *DashboardService) EnrollmentChart(ctx context.Context, actor models.Actor) ([]models.ChartPoint, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	rows, err := s.hierarchy.LoadFull(ctx, models.HierarchyFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load departments")
	}

	seen := make(map[string]bool)
	var ids, codes []string
	for _, row := range rows {
		if seen[row.DepartmentID] {
			continue
		}
		seen[row.DepartmentID] = true
		ids = append(ids, row.DepartmentID)
		codes = append(codes, row.DepartmentCode)
		if len(ids) == enrollmentChartLimit {
			break
		}
	}

	counts, err := s.repo.StudentCountsByDepartment(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count students")
	}
	points := make([]models.ChartPoint, 0, len(ids))
	for i, id := range ids {
		points = append(points, models.ChartPoint{Label: codes[i], Value: counts[id]})
	}
	return points, nil
}

// AttendanceTrends returns daily teacher PRESENT/ABSENT tallies for the last week,
// one point per day including days without marks.
func (s *DashboardService) AttendanceTrends(ctx context.Context, actor models.Actor) ([]models.AttendanceTrendPoint, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	today := models.CalendarDay(s.now())
	since := today.AddDate(0, 0, -(attendanceTrendDays - 1))
	points, err := s.repo.TeacherAttendanceTrend(ctx, since)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance trends")
	}
	byDate := make(map[string]models.AttendanceTrendPoint, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	trend := make([]models.AttendanceTrendPoint, 0, attendanceTrendDays)
	for day := since; !day.After(today); day = day.AddDate(0, 0, 1) {
		label := day.Format(dateLayout)
		point, ok := byDate[label]
		if !ok {
			point = models.AttendanceTrendPoint{Date: label}
		}
		trend = append(trend, point)
	}
	return trend, nil
}

// RecentActivity lists the newest users and courses.
func (s *DashboardService) RecentActivity(ctx context.Context, actor models.Actor) (*models.RecentActivity, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	users, err := s.repo.RecentUsers(ctx, recentActivityEntries)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent users")
	}
	courses, err := s.repo.RecentCourses(ctx, recentActivityEntries)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent courses")
	}
	if users == nil {
		users = []models.User{}
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return &models.RecentActivity{Users: users, Courses: courses}, nil
}

// System returns process counters collected by the metrics service.
func (s *DashboardService) System(ctx context.Context, actor models.Actor) (*models.SystemMetrics, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	snapshot := s.metrics.Snapshot()
	return &snapshot, nil
}
