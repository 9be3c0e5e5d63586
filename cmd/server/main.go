package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"realagent/internal/cache"
	"realagent/internal/config"
	"realagent/internal/db"
	"realagent/internal/handler"
	"realagent/internal/logger"
	"realagent/internal/model"
	"realagent/internal/password"
	"realagent/internal/repository"
	"realagent/internal/router"
	"realagent/internal/service"
)

func main() {
	cfg := config.Load()
	appLog := logger.New(cfg)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop the users table if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		appLog.Warn("RESET_DB=true detected, dropping users table")
		if err := gormDB.Migrator().DropTable(&model.User{}); err != nil {
			appLog.Warn("failed to drop table (may not exist)", "error", err)
		}
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	hasher := password.New(cfg.HashScheme)

	userRepo := repository.NewUserRepository(gormDB)

	userService := service.NewUserService(userRepo, cacheClient, hasher)
	authService := service.NewAuthService(userRepo, cacheClient, hasher)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	statsHandler := handler.NewStatsHandler(userService)

	e := echo.New()
	router.Register(e, cfg, userHandler, authHandler, statsHandler)

	appLog.Info("starting server", "port", cfg.ServerPort, "hash_scheme", cfg.HashScheme)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
