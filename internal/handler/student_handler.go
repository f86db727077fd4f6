package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/service"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/response"
	"github.com/noah-isme/campus-admin-api/pkg/spreadsheet"
)

// StudentImportHandler exposes spreadsheet and text bulk student onboarding.
type StudentImportHandler struct {
	service  *service.ImportService
	maxBytes int64
}

// NewStudentImportHandler constructs the handler. maxBytes bounds uploaded workbooks.
func NewStudentImportHandler(svc *service.ImportService, maxBytes int64) *StudentImportHandler {
	return &StudentImportHandler{service: svc, maxBytes: maxBytes}
}

// Template godoc
// @Summary Download import template
// @Description Workbook with a Students sheet and a Reference Data sheet of valid hierarchy names
// @Tags Students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /students/template [get]
func (h *StudentImportHandler) Template(c *gin.Context) {
	data, err := h.service.Template(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "student-import-template.xlsx", spreadsheet.ContentType, data)
}

// Import godoc
// @Summary Import students
// @Description Create students from an uploaded workbook, resolving hierarchy names to a section
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /students/import [post]
func (h *StudentImportHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation(err, "file is required"))
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooLarge, "workbook exceeds the upload limit"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Validation(err, "unable to read file"))
		return
	}
	defer file.Close()

	result, err := h.service.ImportWorkbook(c.Request.Context(), actorFromContext(c), file, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BulkText godoc
// @Summary Bulk add students to a section
// @Description One "Name, Username" pair per line
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.BulkTextRequest true "Raw text"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sections/{id}/students/bulk [post]
func (h *StudentImportHandler) BulkText(c *gin.Context) {
	var req dto.BulkTextRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}

	result, err := h.service.BulkText(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
