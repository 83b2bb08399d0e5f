// Seeds the development database with a couple of users, open jobs and a
// booking so the SDK and CLI have something to click through.
package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaambuddy/internal/config"
	"kaambuddy/internal/database"
	"kaambuddy/internal/domain"
	"kaambuddy/internal/server/repository"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Job{}, &domain.Booking{}, &domain.Notification{}); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	jobs := repository.NewJobRepository(db)
	bookings := repository.NewBookingRepository(db)

	customer := &domain.User{
		ID:              uuid.NewString(),
		Name:            "Asha Verma",
		Phone:           "+919800000001",
		UserType:        domain.UserCustomer,
		IsPhoneVerified: true,
		IsActive:        true,
	}
	worker := &domain.User{
		ID:              uuid.NewString(),
		Name:            "Ramesh Kumar",
		Phone:           "+919800000002",
		UserType:        domain.UserWorker,
		WorkCategory:    "plumbing",
		Experience:      "5 years",
		IsVerified:      true,
		IsPhoneVerified: true,
		IsActive:        true,
	}
	for _, u := range []*domain.User{customer, worker} {
		if _, err := users.GetByPhone(ctx, u.Phone); err == nil {
			log.Info("user already seeded", zap.String("phone", u.Phone))
			continue
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("failed to seed user", zap.String("phone", u.Phone), zap.Error(err))
		}
	}

	seedJobs := []*domain.Job{
		{
			ID:          uuid.NewString(),
			Title:       "Fix leaking kitchen tap",
			Description: "Tap drips constantly, needs washer replacement",
			Category:    "plumbing",
			Budget:      500,
			Location:    "Andheri West",
			CustomerID:  customer.ID,
			Status:      domain.JobOpen,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Paint two bedroom walls",
			Description: "Light blue, paint provided",
			Category:    "painting",
			Budget:      2500,
			Location:    "Bandra East",
			CustomerID:  customer.ID,
			Status:      domain.JobOpen,
		},
	}
	for _, j := range seedJobs {
		if err := jobs.Create(ctx, j); err != nil {
			log.Fatal("failed to seed job", zap.String("title", j.Title), zap.Error(err))
		}
	}

	booking := &domain.Booking{
		ID:         uuid.NewString(),
		JobID:      seedJobs[0].ID,
		WorkerID:   worker.ID,
		CustomerID: customer.ID,
		Status:     domain.BookingPending,
		Note:       "Can come tomorrow morning",
	}
	if err := bookings.Create(ctx, booking); err != nil {
		log.Fatal("failed to seed booking", zap.Error(err))
	}

	log.Info("seed complete",
		zap.String("customer", customer.Phone),
		zap.String("worker", worker.Phone),
		zap.Int("jobs", len(seedJobs)))
}
