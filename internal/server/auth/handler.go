package auth

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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/verify-otp", h.VerifyOTP)
		authGroup.POST("/resend-otp", h.ResendOTP)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.GET("/me", h.Me)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrPhoneAlreadyExists) {
			response.Domain(c, "Phone number is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	h.sendOTP(c, req.Phone, "OTP sent")
}

func (h *Handler) ResendOTP(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	h.sendOTP(c, req.Phone, "OTP resent")
}

func (h *Handler) sendOTP(c *gin.Context, phone, okMessage string) {
	err := h.service.RequestOTP(c.Request.Context(), phone)
	switch {
	case err == nil:
		response.Message(c, http.StatusOK, okMessage)
	case errors.Is(err, ErrUserNotFound):
		response.Domain(c, "Phone number is not registered")
	case errors.Is(err, ErrResendCooldown):
		response.Domain(c, "Please wait before requesting another OTP")
	default:
		response.Error(c, http.StatusInternalServerError, "OTP_FAILED", "Failed to send OTP")
	}
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.VerifyOTP(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOTPMismatch):
			response.Domain(c, "Invalid OTP")
		case errors.Is(err, ErrOTPExpired):
			response.Domain(c, "OTP has expired, please request a new one")
		case errors.Is(err, ErrNoPendingOTP), errors.Is(err, ErrUserNotFound):
			response.Domain(c, "No pending OTP for this phone number")
		case errors.Is(err, ErrTooManyAttempts):
			response.Domain(c, "Too many attempts, please request a new OTP")
		default:
			response.Error(c, http.StatusInternalServerError, "VERIFY_FAILED", "Failed to verify OTP")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":        result.Token,
		"refreshToken": result.RefreshToken,
		"user":         result.User,
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	// Tokens are stateless; the client discards its copy. Kept as an
	// endpoint so the SDK's best-effort remote logout has somewhere to go.
	response.Message(c, http.StatusOK, "Logged out")
}
