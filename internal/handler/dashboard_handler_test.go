package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/middleware"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type fakeDashboardSrv struct {
	stats     *models.DashboardStats
	hit       bool
	err       error
	trends    []models.AttendanceTrendPoint
	lastActor models.Actor
}

func (f *fakeDashboardSrv) Stats(_ context.Context, actor models.Actor) (*models.DashboardStats, bool, error) {
	f.lastActor = actor
	return f.stats, f.hit, f.err
}

func (f *fakeDashboardSrv) EnrollmentChart(context.Context, models.Actor) ([]models.ChartPoint, error) {
	return []models.ChartPoint{}, f.err
}

func (f *fakeDashboardSrv) AttendanceTrends(context.Context, models.Actor) ([]models.AttendanceTrendPoint, error) {
	return f.trends, f.err
}

func (f *fakeDashboardSrv) RecentActivity(context.Context, models.Actor) (*models.RecentActivity, error) {
	return &models.RecentActivity{}, f.err
}

func (f *fakeDashboardSrv) System(context.Context, models.Actor) (*models.SystemMetrics, error) {
	return &models.SystemMetrics{Goroutines: 4}, f.err
}

type responseEnvelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
}

func adminContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin})
	return c, rec
}

func TestDashboardHandlerStatsReportsCacheHit(t *testing.T) {
	service := &fakeDashboardSrv{stats: &models.DashboardStats{TotalUsers: 12}, hit: true}
	handler := NewDashboardHandler(service)

	c, rec := adminContext(http.MethodGet, "/dashboard/stats")
	handler.Stats(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(envelope.Data, &stats))
	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, "admin-1", service.lastActor.UserID)
	assert.Equal(t, models.RoleAdmin, service.lastActor.Role)
}

func TestDashboardHandlerPropagatesServiceError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")})

	c, rec := adminContext(http.MethodGet, "/dashboard/stats")
	handler.Stats(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardHandlerTrends(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{trends: []models.AttendanceTrendPoint{
		{Date: "2024-03-09", Present: 3, Absent: 1},
		{Date: "2024-03-10", Present: 0, Absent: 0},
	}})

	c, rec := adminContext(http.MethodGet, "/dashboard/attendance-trends")
	handler.AttendanceTrends(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var points []models.AttendanceTrendPoint
	require.NoError(t, json.Unmarshal(envelope.Data, &points))
	assert.Len(t, points, 2)
	assert.Equal(t, 3, points[0].Present)
}

func TestDashboardHandlerNilService(t *testing.T) {
	handler := NewDashboardHandler(nil)

	c, rec := adminContext(http.MethodGet, "/dashboard/stats")
	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
