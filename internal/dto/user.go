package dto

import "github.com/noah-isme/campus-admin-api/internal/models"

// CreateUserRequest is the admin payload for a new account.
type CreateUserRequest struct {
	Name         string          `json:"name" validate:"required"`
	Username     string          `json:"username" validate:"required"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         models.UserRole `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT CLASS_MANAGER"`
	DepartmentID *string         `json:"departmentId"`
	SectionID    *string         `json:"sectionId"`
}

// UpdateUserRequest patches an account; nil fields are left untouched.
type UpdateUserRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1"`
	Username     *string          `json:"username" validate:"omitempty,min=1"`
	Password     *string          `json:"password" validate:"omitempty,min=6"`
	Role         *models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT CLASS_MANAGER"`
	DepartmentID *string          `json:"departmentId"`
	SectionID    *string          `json:"sectionId"`
}

// UpdateProfileRequest lets a user rename themself or change their password.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=6"`
	ConfirmPassword string  `json:"confirmPassword"`
}

// ImportResult summarises a spreadsheet student import.
type ImportResult struct {
	Imported   int      `json:"imported"`
	Rejected   int      `json:"rejected"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	MoreErrors int      `json:"moreErrors"`
	Message    string   `json:"message"`
}

// BulkTextRequest is the legacy newline separated student list.
type BulkTextRequest struct {
	RawText string `json:"rawText" validate:"required"`
}

// BulkTextResult summarises a text bulk upload into a section.
type BulkTextResult struct {
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Rejected   int      `json:"rejected"`
	Errors     []string `json:"errors"`
	MoreErrors int      `json:"moreErrors"`
}
