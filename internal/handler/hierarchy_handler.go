package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/internal/service"
	"github.com/noah-isme/campus-admin-api/pkg/response"
)

// HierarchyHandler exposes the college to section tree.
type HierarchyHandler struct {
	service *service.HierarchyService
}

// NewHierarchyHandler constructs the handler.
func NewHierarchyHandler(svc *service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{service: svc}
}

// Tree godoc
// @Summary Hierarchy tree
// @Tags Hierarchy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hierarchy [get]
func (h *HierarchyHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}

// Flat godoc
// @Summary Flat hierarchy rows
// @Description One row per leaf path, optionally narrowed to a college, department or program
// @Tags Hierarchy
// @Produce json
// @Param collegeId query string false "College"
// @Param departmentId query string false "Department"
// @Param programId query string false "Program"
// @Success 200 {object} response.Envelope
// @Router /hierarchy/flat [get]
func (h *HierarchyHandler) Flat(c *gin.Context) {
	filter := models.HierarchyFilter{
		CollegeID:    c.Query("collegeId"),
		DepartmentID: c.Query("departmentId"),
		ProgramID:    c.Query("programId"),
	}
	rows, err := h.service.LoadFullHierarchy(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// CreateCollege godoc
// @Summary Create college
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateCollegeRequest true "College"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /colleges [post]
func (h *HierarchyHandler) CreateCollege(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if !bindJSON(c, &req, "invalid college payload") {
		return
	}
	created, err := h.service.CreateCollege(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// CreateDepartment godoc
// @Summary Create department
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /departments [post]
func (h *HierarchyHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !bindJSON(c, &req, "invalid department payload") {
		return
	}
	created, err := h.service.CreateDepartment(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// CreateProgram godoc
// @Summary Create program
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateProgramRequest true "Program"
// @Success 201 {object} response.Envelope
// @Router /programs [post]
func (h *HierarchyHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateProgramRequest
	if !bindJSON(c, &req, "invalid program payload") {
		return
	}
	created, err := h.service.CreateProgram(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// CreateAcademicYear godoc
// @Summary Create academic year
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateAcademicYearRequest true "Academic year"
// @Success 201 {object} response.Envelope
// @Router /academic-years [post]
func (h *HierarchyHandler) CreateAcademicYear(c *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if !bindJSON(c, &req, "invalid academic year payload") {
		return
	}
	created, err := h.service.CreateAcademicYear(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// CreateSemester godoc
// @Summary Create semester
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateSemesterRequest true "Semester"
// @Success 201 {object} response.Envelope
// @Router /semesters [post]
func (h *HierarchyHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	created, err := h.service.CreateSemester(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// CreateSection godoc
// @Summary Create section
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param payload body dto.CreateSectionRequest true "Section"
// @Success 201 {object} response.Envelope
// @Router /sections [post]
func (h *HierarchyHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if !bindJSON(c, &req, "invalid section payload") {
		return
	}
	created, err := h.service.CreateSection(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Section godoc
// @Summary Section detail
// @Description Section with its students and linked courses
// @Tags Hierarchy
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sections/{id} [get]
func (h *HierarchyHandler) Section(c *gin.Context) {
	detail, err := h.service.SectionDetail(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// UpdateSectionCourses godoc
// @Summary Relink section courses
// @Description Replace the section's courses and enroll its students into them
// @Tags Hierarchy
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body dto.UpdateSectionCoursesRequest true "Course ids"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sections/{id}/courses [put]
func (h *HierarchyHandler) UpdateSectionCourses(c *gin.Context) {
	var req dto.UpdateSectionCoursesRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	result, err := h.service.UpdateSectionCourses(c.Request.Context(), actorFromContext(c), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
