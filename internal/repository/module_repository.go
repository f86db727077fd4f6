package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// ModuleRepository stores course modules and their attachments.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository creates a new instance of ModuleRepository.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// Create inserts a module and its attachments in one transaction.
func (r *ModuleRepository) Create(ctx context.Context, module *models.Module, attachments []models.Attachment) (detail *models.ModuleDetail, err error) {
	now := time.Now().UTC()
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	module.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin module transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertModule = `INSERT INTO modules (id, course_id, title, content, created_at) VALUES (:id, :course_id, :title, :content, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertModule, module); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}

	const insertAttachment = `INSERT INTO attachments (id, module_id, name, url, created_at) VALUES (:id, :module_id, :name, :url, :created_at)`
	for i := range attachments {
		attachments[i].ID = uuid.NewString()
		attachments[i].ModuleID = module.ID
		attachments[i].CreatedAt = now
		if _, err = tx.NamedExecContext(ctx, insertAttachment, &attachments[i]); err != nil {
			return nil, fmt.Errorf("create attachment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit module: %w", err)
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	return &models.ModuleDetail{Module: *module, Attachments: attachments}, nil
}

// FindByID returns a module row.
func (r *ModuleRepository) FindByID(ctx context.Context, id string) (*models.Module, error) {
	var module models.Module
	if err := r.db.GetContext(ctx, &module, `SELECT id, course_id, title, content, created_at FROM modules WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return &module, nil
}

// Delete removes a module and, by cascade, its attachments.
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return expectAffected(res)
}

// ListByCourse returns the modules of a course oldest first, each with its attachments.
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ModuleDetail, error) {
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, `SELECT id, course_id, title, content, created_at FROM modules WHERE course_id = $1 ORDER BY created_at`, courseID); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	details := make([]models.ModuleDetail, 0, len(modules))
	if len(modules) == 0 {
		return details, nil
	}

	const query = `SELECT a.id, a.module_id, a.name, a.url, a.created_at FROM attachments a
JOIN modules m ON m.id = a.module_id WHERE m.course_id = $1 ORDER BY a.created_at`
	var attachments []models.Attachment
	if err := r.db.SelectContext(ctx, &attachments, query, courseID); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	byModule := make(map[string][]models.Attachment)
	for _, a := range attachments {
		byModule[a.ModuleID] = append(byModule[a.ModuleID], a)
	}
	for _, m := range modules {
		files := byModule[m.ID]
		if files == nil {
			files = []models.Attachment{}
		}
		details = append(details, models.ModuleDetail{Module: m, Attachments: files})
	}
	return details, nil
}
