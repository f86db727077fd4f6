package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/seed"
	"github.com/noah-isme/campus-admin-api/migrations"
	"github.com/noah-isme/campus-admin-api/pkg/config"
	"github.com/noah-isme/campus-admin-api/pkg/database"
	"github.com/noah-isme/campus-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.NewMigrator(db, migrations.Files, logr).Up(ctx); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	result, err := seed.Run(ctx, db, logr)
	if err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	for username := range result.Users {
		logr.Info("demo account ready", zap.String("username", username))
	}
}
