package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/middleware"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/internal/service"
)

type reportServiceMock struct {
	studentFilter models.StudentAttendanceFilter
	exportType    models.ReportType
	exportFormat  models.ReportFormat
	exportQuery   service.ReportQuery
	saved         dto.CreateSavedReportRequest
	deletedID     string
	err           error
}

func (m *reportServiceMock) StudentAttendance(_ context.Context, _ models.Actor, filter models.StudentAttendanceFilter) (*models.StudentAttendanceReport, error) {
	m.studentFilter = filter
	return &models.StudentAttendanceReport{}, m.err
}

func (m *reportServiceMock) TeacherAttendance(context.Context, models.Actor, models.TeacherAttendanceFilter) (*models.TeacherAttendanceReport, error) {
	return &models.TeacherAttendanceReport{}, m.err
}

func (m *reportServiceMock) CourseEnrollment(context.Context, models.Actor, models.EnrollmentFilter) (*models.EnrollmentReport, error) {
	return &models.EnrollmentReport{}, m.err
}

func (m *reportServiceMock) DepartmentStats(context.Context, models.Actor, models.DepartmentFilter) (*models.DepartmentReport, error) {
	return &models.DepartmentReport{}, m.err
}

func (m *reportServiceMock) Export(_ context.Context, _ models.Actor, reportType models.ReportType, format models.ReportFormat, query service.ReportQuery) (*dto.ExportFile, error) {
	m.exportType = reportType
	m.exportFormat = format
	m.exportQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ExportFile{Filename: "enrollment-20240306.csv", ContentType: "text/csv", Data: []byte("a,b\n")}, nil
}

func (m *reportServiceMock) SaveReport(_ context.Context, actor models.Actor, req dto.CreateSavedReportRequest) (*models.SavedReport, error) {
	m.saved = req
	return &models.SavedReport{ID: "saved-1", UserID: actor.UserID, Name: req.Name, Type: req.Type}, m.err
}

func (m *reportServiceMock) SavedReports(context.Context, models.Actor) ([]models.SavedReport, error) {
	return []models.SavedReport{}, m.err
}

func (m *reportServiceMock) DeleteSavedReport(_ context.Context, _ models.Actor, id string) error {
	m.deletedID = id
	return m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "manager-1", Role: models.RoleClassManager})
	return c, w
}

func TestReportHandlerParsesStudentFilters(t *testing.T) {
	mock := &reportServiceMock{}
	handler := NewReportHandler(mock)

	c, w := newGinContext(http.MethodGet, "/reports/student-attendance?startDate=2024-03-01&endDate=2024-03-31&courseId=c1&sectionId=s1", nil)
	handler.StudentAttendance(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.studentFilter.StartDate)
	require.NotNil(t, mock.studentFilter.EndDate)
	assert.Equal(t, "2024-03-01", mock.studentFilter.StartDate.Format("2006-01-02"))
	assert.Equal(t, "c1", mock.studentFilter.CourseID)
	assert.Equal(t, "s1", mock.studentFilter.SectionID)
}

func TestReportHandlerRejectsBadDates(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/reports/student-attendance?startDate=03/01/2024", nil)
	handler.StudentAttendance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/reports/teacher-attendance?startDate=2024-03-10&endDate=2024-03-01", nil)
	handler.TeacherAttendance(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExport(t *testing.T) {
	mock := &reportServiceMock{}
	handler := NewReportHandler(mock)

	c, w := newGinContext(http.MethodGet, "/reports/enrollment/export?format=csv&semesterId=sem-1", nil)
	c.Params = gin.Params{{Key: "type", Value: "enrollment"}}
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportCourseEnrollment, mock.exportType)
	assert.Equal(t, models.ReportFormatCSV, mock.exportFormat)
	assert.Equal(t, "sem-1", mock.exportQuery.Enrollment.SemesterID)
	assert.Equal(t, `attachment; filename="enrollment-20240306.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestReportHandlerExportUnknownType(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/reports/grades/export", nil)
	c.Params = gin.Params{{Key: "type", Value: "grades"}}
	handler.Export(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerSavedReports(t *testing.T) {
	mock := &reportServiceMock{}
	handler := NewReportHandler(mock)

	body, _ := json.Marshal(map[string]interface{}{"name": "Weekly", "type": "DEPARTMENT_STATS"})
	c, w := newGinContext(http.MethodPost, "/reports/saved", body)
	handler.SaveReport(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Weekly", mock.saved.Name)
	assert.Equal(t, models.ReportDepartmentStats, mock.saved.Type)

	c, _ = newGinContext(http.MethodDelete, "/reports/saved/saved-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "saved-1"}}
	handler.DeleteSavedReport(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "saved-1", mock.deletedID)
}
