package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	GetListItem(ctx context.Context, id string) (*models.CourseListItem, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error)
	Create(ctx context.Context, course *models.Course, schedules []models.ClassSchedule) error
	Update(ctx context.Context, course *models.Course, schedules *[]models.ClassSchedule) error
	Delete(ctx context.Context, id string) error
	Schedules(ctx context.Context, courseID string) ([]models.ClassSchedule, error)
}

type courseContentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ModuleDetail, error)
}

type courseAssignmentReader interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

// CourseService implements course CRUD and the course detail page.
type CourseService struct {
	repo        courseRepository
	modules     courseContentReader
	assignments courseAssignmentReader
	audit       auditWriter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, modules courseContentReader, assignments courseAssignmentReader, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, modules: modules, assignments: assignments, audit: audit, validator: validate, logger: logger}
}

func toSchedules(inputs []dto.ScheduleInput) ([]models.ClassSchedule, error) {
	schedules := make([]models.ClassSchedule, 0, len(inputs))
	for _, in := range inputs {
		if in.StartTime >= in.EndTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, "schedule start time must be before end time")
		}
		schedules = append(schedules, models.ClassSchedule{
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Room:      strings.TrimSpace(in.Room),
			Type:      in.Type,
		})
	}
	return schedules, nil
}

func courseWriteError(err error, failed string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}
	return repoError(err, "course not found", failed)
}

// List returns paginated courses. Students only ever see published courses.
func (s *CourseService) List(ctx context.Context, actor models.Actor, filter models.CourseFilter) ([]models.CourseListItem, *models.Pagination, error) {
	if err := authorize(actor); err != nil {
		return nil, nil, err
	}
	if actor.Role == models.RoleStudent {
		published := true
		filter.Published = &published
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list courses")
	}
	if items == nil {
		items = []models.CourseListItem{}
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns the course page: schedules, modules with attachments, assignments and enrollment count.
func (s *CourseService) Get(ctx context.Context, actor models.Actor, id string) (*models.CourseDetail, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	item, err := s.repo.GetListItem(ctx, id)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	detail := &models.CourseDetail{
		CourseListItem: *item,
		RequiresKey:    item.HasEnrollmentKey(),
		Schedules:      []models.ClassSchedule{},
		Modules:        []models.ModuleDetail{},
		Assignments:    []models.Assignment{},
	}
	schedules, err := s.repo.Schedules(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load schedules")
	}
	if schedules != nil {
		detail.Schedules = schedules
	}
	if s.modules != nil {
		modules, err := s.modules.ListByCourse(ctx, id)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load modules")
		}
		if modules != nil {
			detail.Modules = modules
		}
	}
	if s.assignments != nil {
		assignments, err := s.assignments.ListByCourse(ctx, id)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load assignments")
		}
		if assignments != nil {
			detail.Assignments = assignments
		}
	}
	return detail, nil
}

// Create adds a course with its schedules. Teachers may only create courses they teach.
func (s *CourseService) Create(ctx context.Context, actor models.Actor, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if actor.Role == models.RoleTeacher && req.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teachers can only create their own courses")
	}
	schedules, err := toSchedules(req.Schedules)
	if err != nil {
		return nil, err
	}

	semesterID := req.SemesterID
	course := &models.Course{
		Title:         strings.TrimSpace(req.Title),
		Code:          strings.TrimSpace(req.Code),
		Description:   req.Description,
		TeacherID:     req.TeacherID,
		DepartmentID:  req.DepartmentID,
		SemesterID:    &semesterID,
		IsPublished:   req.IsPublished,
		EnrollmentKey: nonEmpty(req.EnrollmentKey),
		MaxStudents:   req.MaxStudents,
		Image:         nonEmpty(req.Image),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if err := s.repo.Create(ctx, course, schedules); err != nil {
		return nil, courseWriteError(err, "failed to create course")
	}
	return course, nil
}

// Update patches a course. A present schedules list replaces all schedules atomically.
func (s *CourseService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	if err := ownsCourse(actor, course); err != nil {
		return nil, err
	}
	if req.TeacherID != nil && *req.TeacherID != course.TeacherID && actor.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators can reassign a course")
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Code != nil {
		course.Code = strings.TrimSpace(*req.Code)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.TeacherID != nil {
		course.TeacherID = *req.TeacherID
	}
	if req.DepartmentID != nil {
		course.DepartmentID = *req.DepartmentID
	}
	if req.SemesterID != nil {
		course.SemesterID = nonEmpty(req.SemesterID)
	}
	if req.StartDate != nil {
		course.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = req.EndDate
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if req.EnrollmentKey != nil {
		course.EnrollmentKey = nonEmpty(req.EnrollmentKey)
	}
	if req.MaxStudents != nil {
		course.MaxStudents = req.MaxStudents
	}
	if req.Image != nil {
		course.Image = nonEmpty(req.Image)
	}

	var schedules *[]models.ClassSchedule
	if req.Schedules != nil {
		converted, err := toSchedules(*req.Schedules)
		if err != nil {
			return nil, err
		}
		schedules = &converted
	}

	if err := s.repo.Update(ctx, course, schedules); err != nil {
		s.logger.Error("course update failed", zap.String("course_id", id), zap.Error(err))
		return nil, courseWriteError(err, "failed to update course")
	}
	return course, nil
}

// Delete removes a course owned by the caller, or any course for an admin.
func (s *CourseService) Delete(ctx context.Context, actor models.Actor, id string, meta models.LoginRequest) error {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "course not found", "failed to load course")
	}
	if err := ownsCourse(actor, course); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "course not found", "failed to delete course")
	}

	if s.audit != nil {
		actorID := actor.UserID
		oldPayload, _ := json.Marshal(map[string]string{"title": course.Title, "code": course.Code})
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionCourseDelete,
			Resource:   models.AuditResourceCourses,
			ResourceID: &id,
			OldValues:  oldPayload,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record course audit log", zap.Error(err))
		}
	}
	return nil
}
