package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/internal/service"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/response"
)

type reportService interface {
	StudentAttendance(ctx context.Context, actor models.Actor, filter models.StudentAttendanceFilter) (*models.StudentAttendanceReport, error)
	TeacherAttendance(ctx context.Context, actor models.Actor, filter models.TeacherAttendanceFilter) (*models.TeacherAttendanceReport, error)
	CourseEnrollment(ctx context.Context, actor models.Actor, filter models.EnrollmentFilter) (*models.EnrollmentReport, error)
	DepartmentStats(ctx context.Context, actor models.Actor, filter models.DepartmentFilter) (*models.DepartmentReport, error)
	Export(ctx context.Context, actor models.Actor, reportType models.ReportType, format models.ReportFormat, query service.ReportQuery) (*dto.ExportFile, error)
	SaveReport(ctx context.Context, actor models.Actor, req dto.CreateSavedReportRequest) (*models.SavedReport, error)
	SavedReports(ctx context.Context, actor models.Actor) ([]models.SavedReport, error)
	DeleteSavedReport(ctx context.Context, actor models.Actor, id string) error
}

// reportSlugs maps URL path segments to report types.
var reportSlugs = map[string]models.ReportType{
	"student-attendance": models.ReportStudentAttendance,
	"teacher-attendance": models.ReportTeacherAttendance,
	"enrollment":         models.ReportCourseEnrollment,
	"departments":        models.ReportDepartmentStats,
}

// ReportHandler exposes the reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, key+" must be formatted as YYYY-MM-DD")
	}
	return &parsed, nil
}

// reportQuery reads every report filter from the query string; each report uses its own subset.
func reportQuery(c *gin.Context) (service.ReportQuery, error) {
	start, err := optionalDate(c, "startDate")
	if err != nil {
		return service.ReportQuery{}, err
	}
	end, err := optionalDate(c, "endDate")
	if err != nil {
		return service.ReportQuery{}, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return service.ReportQuery{}, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	department := c.Query("departmentId")
	return service.ReportQuery{
		Student: models.StudentAttendanceFilter{
			StartDate:    start,
			EndDate:      end,
			DepartmentID: department,
			ProgramID:    c.Query("programId"),
			SemesterID:   c.Query("semesterId"),
			SectionID:    c.Query("sectionId"),
			CourseID:     c.Query("courseId"),
			StudentID:    c.Query("studentId"),
		},
		Teacher: models.TeacherAttendanceFilter{
			StartDate:    start,
			EndDate:      end,
			DepartmentID: department,
			CourseID:     c.Query("courseId"),
			TeacherID:    c.Query("teacherId"),
		},
		Enrollment: models.EnrollmentFilter{
			SemesterID:   c.Query("semesterId"),
			DepartmentID: department,
			ProgramID:    c.Query("programId"),
		},
		Department: models.DepartmentFilter{
			DepartmentID:   department,
			AcademicYearID: c.Query("academicYearId"),
		},
	}, nil
}

// StudentAttendance godoc
// @Summary Student attendance report
// @Tags Reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param departmentId query string false "Department"
// @Param programId query string false "Program"
// @Param semesterId query string false "Semester"
// @Param sectionId query string false "Section"
// @Param courseId query string false "Course"
// @Param studentId query string false "Student"
// @Success 200 {object} response.Envelope
// @Router /reports/student-attendance [get]
func (h *ReportHandler) StudentAttendance(c *gin.Context) {
	query, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.StudentAttendance(c.Request.Context(), actorFromContext(c), query.Student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// TeacherAttendance godoc
// @Summary Teacher attendance report
// @Tags Reports
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param departmentId query string false "Department"
// @Param courseId query string false "Course"
// @Param teacherId query string false "Teacher"
// @Success 200 {object} response.Envelope
// @Router /reports/teacher-attendance [get]
func (h *ReportHandler) TeacherAttendance(c *gin.Context) {
	query, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.TeacherAttendance(c.Request.Context(), actorFromContext(c), query.Teacher)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Enrollment godoc
// @Summary Course enrollment report
// @Tags Reports
// @Produce json
// @Param semesterId query string false "Semester"
// @Param departmentId query string false "Department"
// @Param programId query string false "Program"
// @Success 200 {object} response.Envelope
// @Router /reports/enrollment [get]
func (h *ReportHandler) Enrollment(c *gin.Context) {
	query, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.CourseEnrollment(c.Request.Context(), actorFromContext(c), query.Enrollment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Departments godoc
// @Summary Department statistics
// @Tags Reports
// @Produce json
// @Param departmentId query string false "Department"
// @Param academicYearId query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /reports/departments [get]
func (h *ReportHandler) Departments(c *gin.Context) {
	query, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.DepartmentStats(c.Request.Context(), actorFromContext(c), query.Department)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export report
// @Description Renders a report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param type path string true "student-attendance, teacher-attendance, enrollment or departments"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/{type}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	reportType, ok := reportSlugs[strings.ToLower(c.Param("type"))]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown report type"))
		return
	}
	query, err := reportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Export(c.Request.Context(), actorFromContext(c), reportType, models.ReportFormat(c.Query("format")), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// SavedReports godoc
// @Summary List saved reports
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/saved [get]
func (h *ReportHandler) SavedReports(c *gin.Context) {
	reports, err := h.service.SavedReports(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// SaveReport godoc
// @Summary Save report configuration
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.CreateSavedReportRequest true "Saved report"
// @Success 201 {object} response.Envelope
// @Router /reports/saved [post]
func (h *ReportHandler) SaveReport(c *gin.Context) {
	var req dto.CreateSavedReportRequest
	if !bindJSON(c, &req, "invalid saved report payload") {
		return
	}
	saved, err := h.service.SaveReport(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, saved)
}

// DeleteSavedReport godoc
// @Summary Delete saved report
// @Tags Reports
// @Param id path string true "Saved report ID"
// @Success 204 {object} response.Envelope
// @Router /reports/saved/{id} [delete]
func (h *ReportHandler) DeleteSavedReport(c *gin.Context) {
	if err := h.service.DeleteSavedReport(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
