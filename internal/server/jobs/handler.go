package jobs

import (
	"errors"
	"net/http"

	"kaambuddy/internal/pkg/response"
	"kaambuddy/internal/server/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.Create)
	rg.GET("/jobs", h.List)
	rg.GET("/jobs/user/me", h.ListMine)
	rg.GET("/jobs/:id", h.Get)
	rg.PUT("/jobs/:id", h.Update)
	rg.DELETE("/jobs/:id", h.Cancel)
}

func (h *Handler) Create(c *gin.Context) {
	if c.GetString(middleware.CtxUserType) != "customer" {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only customers can post jobs")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	job, err := h.service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create job")
		return
	}
	response.Success(c, http.StatusCreated, job)
}

func (h *Handler) List(c *gin.Context) {
	jobs, err := h.service.ListOpen(c.Request.Context(), c.Query("category"), c.Query("location"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list jobs")
		return
	}
	response.Success(c, http.StatusOK, jobs)
}

func (h *Handler) ListMine(c *gin.Context) {
	jobs, err := h.service.ListMine(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list jobs")
		return
	}
	response.Success(c, http.StatusOK, jobs)
}

func (h *Handler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	job, err := h.service.Update(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Job cancelled")
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Job not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this job")
	case errors.Is(err, ErrNotOpen):
		response.Domain(c, "Job is no longer open")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
