package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type fakeDashboardRepo struct {
	roleCalls   int
	requested   []string
	trendSince  time.Time
	trend       []models.AttendanceTrendPoint
	recentLimit int
}

func (f *fakeDashboardRepo) UserCountsByRole(ctx context.Context) ([]models.RoleCount, error) {
	f.roleCalls++
	return []models.RoleCount{{Role: models.RoleStudent, Count: 40}, {Role: models.RoleTeacher, Count: 5}, {Role: models.RoleAdmin, Count: 1}}, nil
}

func (f *fakeDashboardRepo) CourseCounts(ctx context.Context) (int, int, error) {
	return 12, 9, nil
}

func (f *fakeDashboardRepo) HierarchyCounts(ctx context.Context) (int, int, int, error) {
	return 2, 11, 14, nil
}

func (f *fakeDashboardRepo) StudentCountsByDepartment(ctx context.Context, ids []string) (map[string]int, error) {
	f.requested = ids
	return map[string]int{"d1": 30, "d3": 7}, nil
}

func (f *fakeDashboardRepo) TeacherAttendanceTrend(ctx context.Context, since time.Time) ([]models.AttendanceTrendPoint, error) {
	f.trendSince = since
	return f.trend, nil
}

func (f *fakeDashboardRepo) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	f.recentLimit = limit
	return nil, nil
}

func (f *fakeDashboardRepo) RecentCourses(ctx context.Context, limit int) ([]models.Course, error) {
	return []models.Course{{ID: "c1"}}, nil
}

type fixedCoverage struct{ present, missing int }

func (f fixedCoverage) TeacherCountsOn(ctx context.Context, day time.Time) (int, int, error) {
	return f.present, f.missing, nil
}

type staticHierarchy []models.HierarchyRow

func (s staticHierarchy) LoadFull(ctx context.Context, filter models.HierarchyFilter) ([]models.HierarchyRow, error) {
	return s, nil
}

func newDashboardFixture(rows staticHierarchy) (*DashboardService, *fakeDashboardRepo, *memoryCache) {
	repo := &fakeDashboardRepo{}
	cache := &memoryCache{entries: map[string][]byte{}}
	svc := NewDashboardService(repo, fixedCoverage{present: 3, missing: 1}, rows, cache, nil, time.Minute, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, repo, cache
}

func TestDashboardStatsCached(t *testing.T) {
	svc, repo, _ := newDashboardFixture(nil)

	stats, hit, err := svc.Stats(context.Background(), adminActor)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 46, stats.TotalUsers)
	assert.Equal(t, 0, stats.Users[models.RoleClassManager])
	assert.Equal(t, 3, stats.DraftCourses)
	assert.Equal(t, 3, stats.TodayPresent)
	assert.Equal(t, 1, stats.TodayAbsent)
	assert.Equal(t, 11, stats.Departments)

	again, hit, err := svc.Stats(context.Background(), adminActor)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.roleCalls)
	assert.Equal(t, stats.TotalUsers, again.TotalUsers)

	_, _, err = svc.Stats(context.Background(), teacherActor)
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestDashboardEnrollmentChartFirstTenDepartments(t *testing.T) {
	var rows staticHierarchy
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("d%d", i)
		// one row per program
		rows = append(rows, models.HierarchyRow{DepartmentID: id, DepartmentCode: "CODE-" + id}, models.HierarchyRow{DepartmentID: id, DepartmentCode: "CODE-" + id})
	}
	svc, repo, _ := newDashboardFixture(rows)

	points, err := svc.EnrollmentChart(context.Background(), adminActor)
	require.NoError(t, err)
	require.Len(t, points, 10)
	assert.Len(t, repo.requested, 10)
	assert.Equal(t, models.ChartPoint{Label: "CODE-d1", Value: 30}, points[0])
	assert.Equal(t, models.ChartPoint{Label: "CODE-d2", Value: 0}, points[1])
	assert.Equal(t, 7, points[2].Value)
}

func TestDashboardAttendanceTrendsFillsWeek(t *testing.T) {
	svc, repo, _ := newDashboardFixture(nil)
	repo.trend = []models.AttendanceTrendPoint{{Date: "2024-03-05", Present: 4, Absent: 1}, {Date: "2024-03-10", Present: 2}}

	trend, err := svc.AttendanceTrends(context.Background(), adminActor)
	require.NoError(t, err)
	require.Len(t, trend, 7)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), repo.trendSince)
	assert.Equal(t, "2024-03-04", trend[0].Date)
	assert.Equal(t, models.AttendanceTrendPoint{Date: "2024-03-05", Present: 4, Absent: 1}, trend[1])
	assert.Equal(t, 2, trend[6].Present)
}

func TestDashboardRecentActivity(t *testing.T) {
	svc, repo, _ := newDashboardFixture(nil)

	activity, err := svc.RecentActivity(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.recentLimit)
	assert.NotNil(t, activity.Users)
	assert.Len(t, activity.Courses, 1)

	system, err := svc.System(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Zero(t, system.RequestsTotal)
}
