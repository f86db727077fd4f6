package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.UserProfile, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Profile(ctx context.Context, id string) (*models.UserProfile, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type sectionAutoEnroller interface {
	EnrollIntoSectionCourses(ctx context.Context, userID, sectionID string) (int, error)
}

// UserService handles account administration and self-service profile changes.
type UserService struct {
	repo      userRepository
	enroller  sectionAutoEnroller
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, enroller sectionAutoEnroller, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, enroller: enroller, validator: validate, logger: logger}
}

// List returns paginated active users.
func (s *UserService) List(ctx context.Context, actor models.Actor, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, nil, err
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list users")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListStudents returns students narrowed by the most specific hierarchy filter given.
func (s *UserService) ListStudents(ctx context.Context, actor models.Actor, filter models.StudentFilter) ([]models.UserProfile, *models.Pagination, error) {
	if err := authorize(actor, models.RolesDirectory...); err != nil {
		return nil, nil, err
	}
	students, total, err := s.repo.ListStudents(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize)
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, actor models.Actor, id string) (*models.User, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "user not found", "failed to load user")
	}
	return user, nil
}

// Create adds a new account. A student placed in a section is enrolled into the section's courses.
func (s *UserService) Create(ctx context.Context, actor models.Actor, req dto.CreateUserRequest, meta models.LoginRequest) (*models.User, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid create user payload")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		DepartmentID: nonEmpty(req.DepartmentID),
		SectionID:    nonEmpty(req.SectionID),
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}

	if user.SectionID != nil {
		s.autoEnroll(ctx, user.ID, *user.SectionID)
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"id": user.ID, "username": user.Username, "role": user.Role})
	s.audit(ctx, actor, models.AuditActionUserCreate, user.ID, nil, newPayload, meta)
	return user, nil
}

// Update patches an account. Moving the user into a section enrolls them into its courses.
func (s *UserService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateUserRequest, meta models.LoginRequest) (*models.User, error) {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid update payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "user not found", "failed to load user")
	}
	oldPayload, _ := json.Marshal(map[string]interface{}{"username": user.Username, "role": user.Role, "section_id": user.SectionID})
	previousSection := derefString(user.SectionID)

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		user.DepartmentID = nonEmpty(req.DepartmentID)
	}
	if req.SectionID != nil {
		user.SectionID = nonEmpty(req.SectionID)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, repoError(err, "user not found", "failed to update user")
	}

	if section := derefString(user.SectionID); section != "" && section != previousSection {
		s.autoEnroll(ctx, user.ID, section)
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"username": user.Username, "role": user.Role, "section_id": user.SectionID})
	s.audit(ctx, actor, models.AuditActionUserUpdate, user.ID, oldPayload, newPayload, meta)
	return user, nil
}

// Delete deactivates an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor models.Actor, id string, meta models.LoginRequest) error {
	if err := authorize(actor, models.RolesAdmin...); err != nil {
		return err
	}
	if actor.Is(id) {
		return appErrors.Clone(appErrors.ErrValidation, "you cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "user not found", "failed to delete user")
	}
	newPayload, _ := json.Marshal(map[string]interface{}{"active": false})
	s.audit(ctx, actor, models.AuditActionUserDelete, id, nil, newPayload, meta)
	return nil
}

// Me returns the caller with department and section names.
func (s *UserService) Me(ctx context.Context, actor models.Actor) (*models.UserProfile, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	profile, err := s.repo.Profile(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "user not found", "failed to load profile")
	}
	return profile, nil
}

// UpdateProfile renames the caller and/or changes their password.
func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, req dto.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid profile payload")
	}

	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "user not found", "failed to load user")
	}

	changed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
		if name != user.Name {
			user.Name = name
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, repoError(err, "user not found", "failed to update profile")
			}
			changed = true
		}
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "current password is required")
		}
		if req.NewPassword != req.ConfirmPassword {
			return nil, appErrors.Clone(appErrors.ErrValidation, "new passwords do not match")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		if err := s.repo.UpdatePassword(ctx, user.ID, string(hash), time.Now().UTC()); err != nil {
			return nil, appErrors.Internal(err, "failed to update password")
		}
		s.audit(ctx, actor, models.AuditActionPasswordChange, user.ID, nil, []byte(`{"status":"changed"}`), models.LoginRequest{})
		changed = true
	}

	if !changed {
		return nil, appErrors.Clone(appErrors.ErrNoChanges, "No changes made")
	}
	return s.Me(ctx, actor)
}

func (s *UserService) autoEnroll(ctx context.Context, userID, sectionID string) {
	if s.enroller == nil {
		return
	}
	added, err := s.enroller.EnrollIntoSectionCourses(ctx, userID, sectionID)
	if err != nil {
		s.logger.Warn("failed to auto-enroll user into section courses",
			zap.String("user_id", userID), zap.String("section_id", sectionID), zap.Error(err))
		return
	}
	s.logger.Debug("auto-enrolled user", zap.String("user_id", userID), zap.Int("courses", added))
}

func (s *UserService) audit(ctx context.Context, actor models.Actor, action, resourceID string, oldValues, newValues []byte, meta models.LoginRequest) {
	actorID := actor.UserID
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   models.AuditResourceUsers,
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record user audit log", zap.String("action", action), zap.Error(err))
	}
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
