package dto

import (
	"encoding/json"

	"github.com/noah-isme/campus-admin-api/internal/models"
)

// CreateSavedReportRequest stores a named report configuration.
type CreateSavedReportRequest struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Type        models.ReportType `json:"type" validate:"required"`
	Parameters  json.RawMessage   `json:"parameters"`
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
