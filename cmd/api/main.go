package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaambuddy/internal/config"
	"kaambuddy/internal/database"
	"kaambuddy/internal/server"
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

	router, err := server.New(cfg, db, log)
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.AppEnv))
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
