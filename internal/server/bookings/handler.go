package bookings

import (
	"context"
	"errors"
	"net/http"

	"kaambuddy/internal/domain"
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
	rg.POST("/bookings/jobs/:id/apply", h.Apply)
	rg.GET("/bookings", h.List)
	rg.GET("/bookings/:id", h.Get)
	rg.PUT("/bookings/:id/accept", h.Accept)
	rg.PUT("/bookings/:id/reject", h.Reject)
	rg.PUT("/bookings/:id/start", h.Start)
	rg.PUT("/bookings/:id/complete", h.Complete)
	rg.DELETE("/bookings/:id", h.Cancel)
}

func (h *Handler) Apply(c *gin.Context) {
	// the note is optional and so is the body itself
	var req ApplyRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.service.Apply(c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.CtxUserID),
		c.GetString(middleware.CtxUserType),
		req.Note)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, booking)
}

func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Get(c *gin.Context) {
	booking, err := h.service.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, booking)
}

func (h *Handler) Accept(c *gin.Context) {
	h.lifecycle(c, h.service.Accept)
}

func (h *Handler) Reject(c *gin.Context) {
	h.lifecycle(c, h.service.Reject)
}

func (h *Handler) Start(c *gin.Context) {
	h.lifecycle(c, h.service.Start)
}

func (h *Handler) Complete(c *gin.Context) {
	h.lifecycle(c, h.service.Complete)
}

func (h *Handler) lifecycle(c *gin.Context, call func(ctx context.Context, id, userID string) (*domain.Booking, error)) {
	booking, err := call(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, booking)
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Booking cancelled")
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrJobNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Job not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a party to this booking")
	case errors.Is(err, ErrWorkersOnly):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only workers can apply for jobs")
	case errors.Is(err, ErrJobNotOpen):
		response.Domain(c, "Job is no longer open")
	case errors.Is(err, ErrOwnJob):
		response.Domain(c, "You cannot apply to your own job")
	case errors.Is(err, ErrAlreadyApplied):
		response.Domain(c, "You have already applied to this job")
	case errors.Is(err, ErrAlreadyAccepted):
		response.Domain(c, "Already accepted")
	case errors.Is(err, ErrBadTransition):
		response.Domain(c, "This booking cannot be moved to the requested status")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
