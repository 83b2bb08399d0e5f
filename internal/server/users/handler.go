package users

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
	rg.GET("/users/workers", h.ListWorkers)
	rg.PUT("/users/profile", h.UpdateProfile)
	rg.PUT("/users/fcm-token", h.UpdateFCMToken)
	rg.DELETE("/users/deactivate", h.Deactivate)
	rg.GET("/users/:id", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) ListWorkers(c *gin.Context) {
	verifiedOnly := c.Query("verified") == "true"
	workers, err := h.service.ListWorkers(c.Request.Context(), c.Query("category"), verifiedOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list workers")
		return
	}
	response.Success(c, http.StatusOK, workers)
}

func (h *Handler) UpdateFCMToken(c *gin.Context) {
	var req FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.UpdateFCMToken(c.Request.Context(), c.GetString(middleware.CtxUserID), req.FCMToken); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Token updated")
}

func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Account deactivated")
}

func (h *Handler) renderError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
