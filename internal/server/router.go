// Package server assembles the local development backend. It exists so the
// SDK has a faithful remote to talk to without the production deployment:
// same routes, same envelope, same booking lifecycle rules.
package server

import (
	"net/http"

	"kaambuddy/internal/config"
	"kaambuddy/internal/domain"
	"kaambuddy/internal/pkg/jwt"
	"kaambuddy/internal/server/auth"
	"kaambuddy/internal/server/bookings"
	"kaambuddy/internal/server/jobs"
	"kaambuddy/internal/server/middleware"
	"kaambuddy/internal/server/notifications"
	"kaambuddy/internal/server/repository"
	"kaambuddy/internal/server/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Option tweaks the assembled server. Used by tests and dev tooling.
type Option func(*options)

type options struct {
	otpNotifier func(phone, code string)
}

// WithOTPNotifier routes every issued OTP to fn in addition to the log.
func WithOTPNotifier(fn func(phone, code string)) Option {
	return func(o *options) { o.otpNotifier = fn }
}

func New(cfg config.Server, db *gorm.DB, log *zap.Logger, opts ...Option) (*gin.Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Job{},
		&domain.Booking{},
		&domain.Notification{},
		&repository.OTPCode{},
	); err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(
		userRepo, otpRepo, jwtService,
		cfg.OTPTTL, cfg.OTPResendCooldown, cfg.LogOTP,
	)
	if o.otpNotifier != nil {
		authService.OnOTP(o.otpNotifier)
	}
	authHandler := auth.NewHandler(authService)
	jobsHandler := jobs.NewHandler(jobs.NewService(jobRepo))
	bookingsHandler := bookings.NewHandler(bookings.NewService(bookingRepo, jobRepo, notificationRepo, log))
	usersHandler := users.NewHandler(users.NewService(userRepo))
	notifHandler := notifications.NewHandler(notificationRepo)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtService, userRepo))
	authHandler.RegisterProtectedRoutes(protected)
	jobsHandler.RegisterRoutes(protected)
	bookingsHandler.RegisterRoutes(protected)
	usersHandler.RegisterRoutes(protected)
	notifHandler.RegisterRoutes(protected)

	return r, nil
}
