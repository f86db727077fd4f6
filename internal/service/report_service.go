package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/export"
)

const notAvailable = "N/A"

type reportRepository interface {
	StudentAttendance(ctx context.Context, filter models.StudentAttendanceFilter, limit int) ([]models.StudentAttendanceRow, error)
	TeacherAttendance(ctx context.Context, filter models.TeacherAttendanceFilter, limit int) ([]models.TeacherAttendanceRow, error)
	CourseEnrollment(ctx context.Context, filter models.EnrollmentFilter) ([]models.CourseEnrollmentRow, error)
	DepartmentStats(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentStatsRow, error)
	CreateSavedReport(ctx context.Context, report *models.SavedReport) error
	ListSavedReports(ctx context.Context, userID string) ([]models.SavedReport, error)
	DeleteSavedReport(ctx context.Context, id, userID string) error
}

type resultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type tableRenderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportQuery carries every report filter; only the one matching the requested type is used.
type ReportQuery struct {
	Student    models.StudentAttendanceFilter
	Teacher    models.TeacherAttendanceFilter
	Enrollment models.EnrollmentFilter
	Department models.DepartmentFilter
}

// ReportService runs the aggregation reports, renders exports and manages saved reports.
type ReportService struct {
	repo      reportRepository
	cache     resultCache
	ttl       time.Duration
	renderers map[models.ReportFormat]tableRenderer
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewReportService constructs the report service. A nil cache disables result caching.
func NewReportService(repo reportRepository, cache resultCache, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		renderers: map[models.ReportFormat]tableRenderer{
			models.ReportFormatCSV: export.NewCSVExporter(),
			models.ReportFormatPDF: export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// UseMetrics records report query timings on m.
func (s *ReportService) UseMetrics(m *MetricsService) *ReportService {
	s.metrics = m
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func cachedReport[T any](ctx context.Context, s *ReportService, namespace string, filter interface{}, load func() (*T, error)) (*T, error) {
	key := CacheKey("reports:"+namespace, filter)
	if s.cache != nil {
		var cached T
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}
	start := time.Now()
	result, err := load()
	s.metrics.ObserveDBQuery("report_"+namespace, time.Since(start))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.logger.Debug("report cache write skipped", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// StudentAttendanceStatsFor computes the summary over fetched rows.
func StudentAttendanceStatsFor(rows []models.StudentAttendanceRow) models.StudentAttendanceStats {
	stats := models.StudentAttendanceStats{Total: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case models.AttendancePresent:
			stats.Present++
		case models.AttendanceAbsent:
			stats.Absent++
		case models.AttendanceLate:
			stats.Late++
		case models.AttendanceExcused:
			stats.Excused++
		}
	}
	stats.AttendanceRate = percentage(stats.Present+stats.Late, stats.Total)
	return stats
}

// TeacherAttendanceStatsFor computes coverage over fetched rows.
func TeacherAttendanceStatsFor(rows []models.TeacherAttendanceRow) models.TeacherAttendanceStats {
	stats := models.TeacherAttendanceStats{TotalClasses: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case models.AttendancePresent:
			stats.Held++
		case models.AttendanceAbsent:
			stats.Absent++
		}
	}
	stats.CoverageRate = percentage(stats.Held, stats.TotalClasses)
	return stats
}

// EnrollmentStatsFor totals course enrollments.
func EnrollmentStatsFor(rows []models.CourseEnrollmentRow) models.EnrollmentStats {
	stats := models.EnrollmentStats{TotalCourses: len(rows)}
	for _, row := range rows {
		stats.TotalEnrollments += row.EnrollmentCount
	}
	if stats.TotalCourses > 0 {
		stats.AverageEnrollment = round2(float64(stats.TotalEnrollments) / float64(stats.TotalCourses))
	}
	return stats
}

// StudentAttendance runs the student attendance report.
func (s *ReportService) StudentAttendance(ctx context.Context, actor models.Actor, filter models.StudentAttendanceFilter) (*models.StudentAttendanceReport, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	return cachedReport(ctx, s, "student-attendance", filter, func() (*models.StudentAttendanceReport, error) {
		rows, err := s.repo.StudentAttendance(ctx, filter, models.ReportRowCap)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to generate student attendance report")
		}
		if rows == nil {
			rows = []models.StudentAttendanceRow{}
		}
		return &models.StudentAttendanceReport{Rows: rows, Stats: StudentAttendanceStatsFor(rows), Truncated: len(rows) >= models.ReportRowCap}, nil
	})
}

// TeacherAttendance runs the teacher coverage report.
func (s *ReportService) TeacherAttendance(ctx context.Context, actor models.Actor, filter models.TeacherAttendanceFilter) (*models.TeacherAttendanceReport, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	return cachedReport(ctx, s, "teacher-attendance", filter, func() (*models.TeacherAttendanceReport, error) {
		rows, err := s.repo.TeacherAttendance(ctx, filter, models.ReportRowCap)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to generate teacher attendance report")
		}
		if rows == nil {
			rows = []models.TeacherAttendanceRow{}
		}
		return &models.TeacherAttendanceReport{Rows: rows, Stats: TeacherAttendanceStatsFor(rows), Truncated: len(rows) >= models.ReportRowCap}, nil
	})
}

// CourseEnrollment runs the enrollment report.
func (s *ReportService) CourseEnrollment(ctx context.Context, actor models.Actor, filter models.EnrollmentFilter) (*models.EnrollmentReport, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	return cachedReport(ctx, s, "enrollment", filter, func() (*models.EnrollmentReport, error) {
		rows, err := s.repo.CourseEnrollment(ctx, filter)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to generate enrollment report")
		}
		if rows == nil {
			rows = []models.CourseEnrollmentRow{}
		}
		return &models.EnrollmentReport{Rows: rows, Stats: EnrollmentStatsFor(rows)}, nil
	})
}

// DepartmentStats runs the department statistics report.
func (s *ReportService) DepartmentStats(ctx context.Context, actor models.Actor, filter models.DepartmentFilter) (*models.DepartmentReport, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	return cachedReport(ctx, s, "departments", filter, func() (*models.DepartmentReport, error) {
		rows, err := s.repo.DepartmentStats(ctx, filter)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to generate department report")
		}
		if rows == nil {
			rows = []models.DepartmentStatsRow{}
		}
		return &models.DepartmentReport{Rows: rows, TotalDepartments: len(rows)}, nil
	})
}

func orNA(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return notAvailable
	}
	return *v
}

func textOrNA(v string) string {
	return orNA(&v)
}

// Dataset runs the report of the given type and flattens it into export columns.
func (s *ReportService) Dataset(ctx context.Context, actor models.Actor, reportType models.ReportType, query ReportQuery) (export.Dataset, error) {
	switch reportType {
	case models.ReportStudentAttendance:
		report, err := s.StudentAttendance(ctx, actor, query.Student)
		if err != nil {
			return export.Dataset{}, err
		}
		rows := make([]map[string]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, map[string]string{
				"Student":    textOrNA(r.StudentName),
				"Course":     textOrNA(r.CourseTitle),
				"Date":       r.Date.Format(dateLayout),
				"Status":     string(r.Status),
				"Section":    orNA(r.SectionName),
				"Department": orNA(r.DepartmentName),
			})
		}
		return export.FromRecords([]string{"Student", "Course", "Date", "Status", "Section", "Department"}, rows), nil
	case models.ReportTeacherAttendance:
		report, err := s.TeacherAttendance(ctx, actor, query.Teacher)
		if err != nil {
			return export.Dataset{}, err
		}
		rows := make([]map[string]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, map[string]string{
				"Teacher":     textOrNA(r.TeacherName),
				"Course":      textOrNA(r.CourseTitle),
				"Course Code": textOrNA(r.CourseCode),
				"Date":        r.Date.Format(dateLayout),
				"Status":      string(r.Status),
				"Marked By":   textOrNA(r.MarkedByName),
				"Notes":       r.Notes,
			})
		}
		return export.FromRecords([]string{"Teacher", "Course", "Course Code", "Date", "Status", "Marked By", "Notes"}, rows), nil
	case models.ReportCourseEnrollment:
		report, err := s.CourseEnrollment(ctx, actor, query.Enrollment)
		if err != nil {
			return export.Dataset{}, err
		}
		rows := make([]map[string]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			rows = append(rows, map[string]string{
				"Course Title": r.Title,
				"Course Code":  r.Code,
				"Teacher":      textOrNA(r.TeacherName),
				"Department":   textOrNA(r.DepartmentName),
				"Semester":     orNA(r.SemesterName),
				"Enrollments":  strconv.Itoa(r.EnrollmentCount),
			})
		}
		return export.FromRecords([]string{"Course Title", "Course Code", "Teacher", "Department", "Semester", "Enrollments"}, rows), nil
	case models.ReportDepartmentStats:
		report, err := s.DepartmentStats(ctx, actor, query.Department)
		if err != nil {
			return export.Dataset{}, err
		}
		rows := make([]map[string]string, 0, len(report.Rows))
		for _, r := range report.Rows {
			programs := make([]string, 0, len(r.Programs))
			for _, p := range r.Programs {
				programs = append(programs, p.Name)
			}
			rows = append(rows, map[string]string{
				"Department": r.Name,
				"Code":       r.Code,
				"College":    textOrNA(r.CollegeName),
				"Programs":   strings.Join(programs, ", "),
				"Students":   strconv.Itoa(r.StudentCount),
				"Courses":    strconv.Itoa(r.CourseCount),
			})
		}
		return export.FromRecords([]string{"Department", "Code", "College", "Programs", "Students", "Courses"}, rows), nil
	}
	return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report type %q", reportType))
}

// Export renders a report as a downloadable CSV or PDF file.
func (s *ReportService) Export(ctx context.Context, actor models.Actor, reportType models.ReportType, format models.ReportFormat, query ReportQuery) (*dto.ExportFile, error) {
	if format == "" {
		format = models.ReportFormatCSV
	}
	renderer, ok := s.renderers[models.ReportFormat(strings.ToLower(string(format)))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	data, err := s.Dataset(ctx, actor, reportType, query)
	if err != nil {
		return nil, err
	}
	slug := strings.ToLower(strings.ReplaceAll(string(reportType), "_", "-"))
	body, err := renderer.Render(data, strings.ReplaceAll(string(reportType), "_", " "))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", slug, s.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        body,
	}, nil
}

// SaveReport stores a named report configuration for the caller.
func (s *ReportService) SaveReport(ctx context.Context, actor models.Actor, req dto.CreateSavedReportRequest) (*models.SavedReport, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid saved report payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid report type")
	}
	report := &models.SavedReport{
		UserID:      actor.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Parameters:  req.Parameters,
	}
	if err := s.repo.CreateSavedReport(ctx, report); err != nil {
		return nil, appErrors.Internal(err, "failed to save report")
	}
	return report, nil
}

// SavedReports lists the caller's saved reports, newest first.
func (s *ReportService) SavedReports(ctx context.Context, actor models.Actor) ([]models.SavedReport, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	reports, err := s.repo.ListSavedReports(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list saved reports")
	}
	if reports == nil {
		reports = []models.SavedReport{}
	}
	return reports, nil
}

// DeleteSavedReport removes one of the caller's saved reports.
func (s *ReportService) DeleteSavedReport(ctx context.Context, actor models.Actor, id string) error {
	if err := authorize(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteSavedReport(ctx, id, actor.UserID); err != nil {
		return repoError(err, "saved report not found", "failed to delete saved report")
	}
	return nil
}
