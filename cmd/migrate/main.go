package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tablebid/internal/config"
	"tablebid/internal/db/migrate"
)

// Uso: migrate [up|down]. Por defecto up.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	direction := migrate.DirectionUp
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
		logger.Fatal("migrate failed", zap.String("direction", direction), zap.Error(err))
	}
	logger.Info("migrate done", zap.String("direction", direction))
}
