package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type managerCourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListAll(ctx context.Context) ([]models.CourseListItem, error)
	CountPublished(ctx context.Context) (int, error)
	SchedulesOn(ctx context.Context, day models.DayOfWeek) ([]models.LiveClass, error)
	SchedulesForCourses(ctx context.Context, courseIDs []string) (map[string][]models.ClassSchedule, error)
}

type teacherAttendanceStore interface {
	UpsertTeacherAttendance(ctx context.Context, mark *models.TeacherAttendance) error
	LatestTeacherAttendance(ctx context.Context, courseIDs []string) (map[string]models.TeacherAttendance, error)
	TeacherCountsOn(ctx context.Context, day time.Time) (present, missing int, err error)
}

// ClassManagerService tracks whether scheduled classes were actually held.
type ClassManagerService struct {
	courses    managerCourseStore
	attendance teacherAttendanceStore
	cache      cacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewClassManagerService constructs the class manager service.
func NewClassManagerService(courses managerCourseStore, attendance teacherAttendanceStore, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ClassManagerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassManagerService{courses: courses, attendance: attendance, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// MarkClassAttendance upserts the coverage mark of a course for one day.
func (s *ClassManagerService) MarkClassAttendance(ctx context.Context, actor models.Actor, req dto.MarkTeacherAttendanceRequest) (*models.TeacherAttendance, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid attendance payload")
	}
	status := models.AttendanceStatus(strings.ToUpper(string(req.Status)))
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status")
	}

	day := models.CalendarDay(s.now())
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := parseDay(req.Date)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	teacherID := strings.TrimSpace(req.TeacherID)
	if teacherID == "" {
		teacherID = course.TeacherID
	}

	mark := &models.TeacherAttendance{
		CourseID:   course.ID,
		TeacherID:  teacherID,
		Date:       day,
		Status:     status,
		MarkedByID: actor.UserID,
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := s.attendance.UpsertTeacherAttendance(ctx, mark); err != nil {
		return nil, appErrors.Internal(err, "failed to record teacher attendance")
	}
	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("teacher attendance marked",
		zap.String("course_id", mark.CourseID),
		zap.String("teacher_id", mark.TeacherID),
		zap.String("status", string(mark.Status)),
	)
	return mark, nil
}

// Dashboard summarises today's coverage.
func (s *ClassManagerService) Dashboard(ctx context.Context, actor models.Actor) (*models.ClassManagerDashboard, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	now := s.now()
	weekday := models.DayOfWeekFor(now)

	published, err := s.courses.CountPublished(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count courses")
	}
	today, err := s.courses.SchedulesOn(ctx, weekday)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load schedules")
	}
	present, missing, err := s.attendance.TeacherCountsOn(ctx, models.CalendarDay(now))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count teacher attendance")
	}
	return &models.ClassManagerDashboard{
		PublishedCourses: published,
		TodaySchedules:   len(today),
		TeachersPresent:  present,
		TeachersMissing:  missing,
		Day:              weekday,
	}, nil
}

// LiveClasses lists today's schedules ordered by start time.
func (s *ClassManagerService) LiveClasses(ctx context.Context, actor models.Actor) ([]models.LiveClass, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	classes, err := s.courses.SchedulesOn(ctx, models.DayOfWeekFor(s.now()))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load schedules")
	}
	if classes == nil {
		classes = []models.LiveClass{}
	}
	return classes, nil
}

// Courses lists every course with its schedules and latest coverage mark.
func (s *ClassManagerService) Courses(ctx context.Context, actor models.Actor) ([]models.ManagedCourse, error) {
	if err := authorize(actor, models.RolesManagers...); err != nil {
		return nil, err
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	schedules, err := s.courses.SchedulesForCourses(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load schedules")
	}
	latest, err := s.attendance.LatestTeacherAttendance(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher attendance")
	}

	managed := make([]models.ManagedCourse, 0, len(courses))
	for _, c := range courses {
		item := models.ManagedCourse{CourseListItem: c, Schedules: schedules[c.ID]}
		if item.Schedules == nil {
			item.Schedules = []models.ClassSchedule{}
		}
		if mark, ok := latest[c.ID]; ok {
			mark := mark
			item.LastAttendance = &mark
		}
		managed = append(managed, item)
	}
	return managed, nil
}
