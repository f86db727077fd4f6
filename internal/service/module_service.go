package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/storage"
)

type moduleRepository interface {
	Create(ctx context.Context, module *models.Module, attachments []models.Attachment) (*models.ModuleDetail, error)
	FindByID(ctx context.Context, id string) (*models.Module, error)
	Delete(ctx context.Context, id string) error
}

// uploader stores request files through the configured object store.
type uploader struct {
	store    storage.ObjectStore
	maxBytes int64
	now      func() time.Time
}

func (u uploader) put(ctx context.Context, prefix string, file dto.FileUpload) (string, error) {
	if u.store == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "file storage is not configured")
	}
	if u.maxBytes > 0 && file.Size > u.maxBytes {
		return "", appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("%s exceeds the upload limit", file.Name))
	}
	name := path.Base(strings.ReplaceAll(file.Name, "\\", "/"))
	key, err := storage.SanitizeKey(fmt.Sprintf("%s%d-%s", prefix, u.now().UnixMilli(), name))
	if err != nil {
		return "", appErrors.Validation(err, "invalid file name")
	}
	url, err := u.store.Put(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return "", appErrors.Internal(err, "failed to store file")
	}
	return url, nil
}

// ModuleService manages course modules and their uploaded attachments.
type ModuleService struct {
	repo      moduleRepository
	courses   courseFinder
	files     uploader
	validator *validator.Validate
	logger    *zap.Logger
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// NewModuleService constructs the module service. maxUpload of zero disables the size check.
func NewModuleService(repo moduleRepository, courses courseFinder, store storage.ObjectStore, maxUpload int64, validate *validator.Validate, logger *zap.Logger) *ModuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ModuleService{
		repo:      repo,
		courses:   courses,
		files:     uploader{store: store, maxBytes: maxUpload, now: time.Now},
		validator: validate,
		logger:    logger,
	}
}

func ownedCourse(ctx context.Context, courses courseFinder, actor models.Actor, courseID string) (*models.Course, error) {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return nil, err
	}
	course, err := courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	if err := ownsCourse(actor, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Create stores the uploaded files and inserts the module with one attachment per file.
func (s *ModuleService) Create(ctx context.Context, actor models.Actor, courseID string, req dto.CreateModuleRequest, files []dto.FileUpload) (*models.ModuleDetail, error) {
	if _, err := ownedCourse(ctx, s.courses, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid module payload")
	}

	attachments := make([]models.Attachment, 0, len(files))
	for _, file := range files {
		url, err := s.files.put(ctx, "", file)
		if err != nil {
			s.logger.Warn("module attachment upload failed", zap.String("file", file.Name), zap.Error(err))
			return nil, err
		}
		attachments = append(attachments, models.Attachment{Name: file.Name, URL: url})
	}

	module := &models.Module{CourseID: courseID, Title: strings.TrimSpace(req.Title), Content: req.Content}
	detail, err := s.repo.Create(ctx, module, attachments)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create module")
	}
	return detail, nil
}

// Delete removes a module and its attachments.
func (s *ModuleService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := authorize(actor, models.RolesStaff...); err != nil {
		return err
	}
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "module not found", "failed to load module")
	}
	if _, err := ownedCourse(ctx, s.courses, actor, module.CourseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "module not found", "failed to delete module")
	}
	return nil
}
