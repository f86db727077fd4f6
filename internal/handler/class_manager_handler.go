package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-admin-api/internal/dto"
	"github.com/noah-isme/campus-admin-api/internal/service"
	"github.com/noah-isme/campus-admin-api/pkg/response"
)

// ClassManagerHandler serves the class manager console.
type ClassManagerHandler struct {
	service *service.ClassManagerService
}

// NewClassManagerHandler constructs the handler.
func NewClassManagerHandler(svc *service.ClassManagerService) *ClassManagerHandler {
	return &ClassManagerHandler{service: svc}
}

// Dashboard godoc
// @Summary Class manager dashboard
// @Tags ClassManager
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class-manager/dashboard [get]
func (h *ClassManagerHandler) Dashboard(c *gin.Context) {
	summary, err := h.service.Dashboard(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// LiveClasses godoc
// @Summary Today's classes
// @Tags ClassManager
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class-manager/live [get]
func (h *ClassManagerHandler) LiveClasses(c *gin.Context) {
	classes, err := h.service.LiveClasses(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Courses godoc
// @Summary Managed courses
// @Description Courses with their schedules and the latest teacher attendance mark
// @Tags ClassManager
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class-manager/courses [get]
func (h *ClassManagerHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// MarkAttendance godoc
// @Summary Mark teacher attendance
// @Tags ClassManager
// @Accept json
// @Produce json
// @Param payload body dto.MarkTeacherAttendanceRequest true "Mark"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /class-manager/attendance [post]
func (h *ClassManagerHandler) MarkAttendance(c *gin.Context) {
	var req dto.MarkTeacherAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	mark, err := h.service.MarkClassAttendance(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark, nil)
}
