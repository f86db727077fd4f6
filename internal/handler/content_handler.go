package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/service"
	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/response"
)

// ContentHandler serves modules, assignments, submissions and grading.
type ContentHandler struct {
	modules     *service.ModuleService
	assignments *service.AssignmentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(modules *service.ModuleService, assignments *service.AssignmentService) *ContentHandler {
	return &ContentHandler{modules: modules, assignments: assignments}
}

// openUploads opens multipart parts as service uploads. The returned closer releases them.
func openUploads(headers []*multipart.FileHeader) ([]dto.FileUpload, func(), error) {
	uploads := make([]dto.FileUpload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, appErrors.Validation(err, "unable to read uploaded file")
		}
		opened = append(opened, file)
		uploads = append(uploads, dto.FileUpload{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		})
	}
	return uploads, closeAll, nil
}

// CreateModule godoc
// @Summary Create module
// @Description Multipart form with title, content and any number of files
// @Tags Modules
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param title formData string true "Title"
// @Param content formData string false "Content"
// @Param files formData file false "Attachments"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /courses/{id}/modules [post]
func (h *ContentHandler) CreateModule(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Validation(err, "multipart form expected"))
		return
	}
	req := dto.CreateModuleRequest{Title: c.PostForm("title"), Content: c.PostForm("content")}
	uploads, release, err := openUploads(form.File["files"])
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	module, err := h.modules.Create(c.Request.Context(), actorFromContext(c), c.Param("id"), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// DeleteModule godoc
// @Summary Delete module
// @Tags Modules
// @Param id path string true "Module ID"
// @Success 204 {object} response.Envelope
// @Router /modules/{id} [delete]
func (h *ContentHandler) DeleteModule(c *gin.Context) {
	if err := h.modules.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateAssignment godoc
// @Summary Create assignment
// @Description Notifies every student on the course roster
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Router /courses/{id}/assignments [post]
func (h *ContentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// DeleteAssignment godoc
// @Summary Delete assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *ContentHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit assignment
// @Description Text content or a single file depending on the assignment's submission type
// @Tags Assignments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Assignment ID"
// @Param content formData string false "Text answer"
// @Param file formData file false "File answer"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id}/submissions [post]
func (h *ContentHandler) Submit(c *gin.Context) {
	req := dto.SubmitAssignmentRequest{Content: c.PostForm("content")}

	var upload *dto.FileUpload
	if header, err := c.FormFile("file"); err == nil {
		uploads, release, openErr := openUploads([]*multipart.FileHeader{header})
		if openErr != nil {
			response.Error(c, openErr)
			return
		}
		defer release()
		upload = &uploads[0]
	}

	submission, err := h.assignments.Submit(c.Request.Context(), actorFromContext(c), c.Param("id"), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Grade godoc
// @Summary Grade submission
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.GradeSubmissionRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submissions/{id}/grade [put]
func (h *ContentHandler) Grade(c *gin.Context) {
	var req dto.GradeSubmissionRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	submission, err := h.assignments.Grade(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}
