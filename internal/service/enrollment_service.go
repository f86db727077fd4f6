package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/internal/repository"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type enrollmentRepository interface {
	Admit(ctx context.Context, courseID, userID string, check repository.AdmissionCheck) (*models.Enrollment, error)
	Delete(ctx context.Context, courseID, userID string) error
	Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error)
	OnRoster(ctx context.Context, courseID, userID string) (bool, error)
	StudentCourses(ctx context.Context, userID string) ([]models.StudentCourse, error)
}

type enrollmentCourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EnrollmentService admits students into courses and computes effective rosters.
type EnrollmentService struct {
	repo    enrollmentRepository
	courses enrollmentCourseStore
	users   userFinder
	audit   auditWriter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseStore, users userFinder, audit auditWriter, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, users: users, audit: audit, metrics: metrics, logger: logger}
}

// admissionCheck applies the admission rules in order: closed, full, key, already enrolled.
// The key check is skipped when skipKey is set.
func admissionCheck(key string, skipKey bool) repository.AdmissionCheck {
	return func(course *models.Course, enrolled int, alreadyEnrolled bool) error {
		if !course.IsPublished {
			return appErrors.ErrEnrollmentClosed
		}
		if course.MaxStudents != nil && enrolled >= *course.MaxStudents {
			return appErrors.ErrCourseFull
		}
		if !skipKey && course.HasEnrollmentKey() && strings.TrimSpace(key) != *course.EnrollmentKey {
			return appErrors.ErrInvalidEnrollKey
		}
		if alreadyEnrolled {
			return appErrors.ErrAlreadyEnrolled
		}
		return nil
	}
}

// Enroll admits a student. Students enroll themselves and must know the key; admins enroll
// any student by id without it.
func (s *EnrollmentService) Enroll(ctx context.Context, actor models.Actor, courseID string, req dto.EnrollRequest, meta models.LoginRequest) (*models.Enrollment, error) {
	if err := authorize(actor, models.RoleAdmin, models.RoleStudent); err != nil {
		return nil, err
	}

	studentID := actor.UserID
	skipKey := false
	if actor.Role == models.RoleAdmin {
		studentID = strings.TrimSpace(req.StudentID)
		if studentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
		}
		skipKey = true
		student, err := s.users.FindByID(ctx, studentID)
		if err != nil {
			return nil, repoError(err, "student not found", "failed to load student")
		}
		if student.Role != models.RoleStudent {
			return nil, appErrors.Clone(appErrors.ErrValidation, "only students can be enrolled")
		}
	}

	enrollment, err := s.repo.Admit(ctx, courseID, studentID, admissionCheck(req.EnrollmentKey, skipKey))
	if err != nil {
		var appErr *appErrors.Error
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		case errors.As(err, &appErr):
			s.metrics.EnrollmentRejected(appErr.Code)
			return nil, appErrors.Clone(appErr, "")
		case database.IsUniqueViolation(err):
			s.metrics.EnrollmentRejected(appErrors.ErrAlreadyEnrolled.Code)
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		default:
			s.logger.Error("enrollment admission failed", zap.String("course_id", courseID), zap.Error(err))
			return nil, appErrors.Internal(err, "failed to enroll")
		}
	}

	s.metrics.EnrollmentAdmitted()
	s.record(ctx, actor, models.AuditActionEnroll, courseID, studentID, meta)
	return enrollment, nil
}

// Unenroll removes a direct enrollment. Allowed for admins, the course teacher and the student.
func (s *EnrollmentService) Unenroll(ctx context.Context, actor models.Actor, courseID, studentID string, meta models.LoginRequest) error {
	if err := authorize(actor); err != nil {
		return err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return repoError(err, "course not found", "failed to load course")
	}
	allowed := actor.Role == models.RoleAdmin ||
		(actor.Role == models.RoleTeacher && course.TeacherID == actor.UserID) ||
		(actor.Role == models.RoleStudent && actor.UserID == studentID)
	if !allowed {
		return appErrors.Clone(appErrors.ErrForbidden, "insufficient permissions")
	}
	if err := s.repo.Delete(ctx, courseID, studentID); err != nil {
		return repoError(err, "enrollment not found", "failed to unenroll")
	}
	s.record(ctx, actor, models.AuditActionUnenroll, courseID, studentID, meta)
	return nil
}

// Roster returns the effective roster of a course.
func (s *EnrollmentService) Roster(ctx context.Context, actor models.Actor, courseID string) ([]models.RosterEntry, error) {
	if err := authorize(actor, models.RolesDirectory...); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	if actor.Role == models.RoleTeacher {
		if err := ownsCourse(actor, course); err != nil {
			return nil, err
		}
	}
	roster, err := s.repo.Roster(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load roster")
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	return roster, nil
}

// StudentCourses lists the caller's courses through enrollment or section.
func (s *EnrollmentService) StudentCourses(ctx context.Context, actor models.Actor) ([]models.StudentCourse, error) {
	if err := authorize(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	courses, err := s.repo.StudentCourses(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.StudentCourse{}
	}
	return courses, nil
}

// Browse lists published courses with their enrollment counts.
func (s *EnrollmentService) Browse(ctx context.Context, actor models.Actor, filter models.CourseFilter) ([]models.CourseListItem, *models.Pagination, error) {
	if err := authorize(actor); err != nil {
		return nil, nil, err
	}
	published := true
	filter.Published = &published
	items, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to browse courses")
	}
	if items == nil {
		items = []models.CourseListItem{}
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *EnrollmentService) record(ctx context.Context, actor models.Actor, action, courseID, studentID string, meta models.LoginRequest) {
	if s.audit == nil {
		return
	}
	actorID := actor.UserID
	payload, _ := json.Marshal(map[string]string{"course_id": courseID, "student_id": studentID})
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   models.AuditResourceEnrollments,
		ResourceID: &courseID,
		NewValues:  payload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record enrollment audit log", zap.String("action", action), zap.Error(err))
	}
}
