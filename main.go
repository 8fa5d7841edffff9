package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/mehmetcc/device-assignment-service/docs"
	"github.com/mehmetcc/device-assignment-service/internal/server"
	"github.com/mehmetcc/device-assignment-service/internal/store"
	"github.com/mehmetcc/device-assignment-service/internal/utils"
)

// @title           Device Assignment Service API
// @version         1.0
// @description     Tracks devices, the employees they are issued to and the accounts that manage them.
//
// @BasePath  /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// load config
	cfg, err := utils.LoadConfig(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// init logger
	logger, err := utils.NewLogger(cfg.Server.LogLevel, cfg.Server.IsDevelopment())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// init database
	db, err := utils.InitDatabase(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	s := store.New(db)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), time.Minute)
	defer cancelBoot()
	if err := s.Migrate(bootCtx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := s.SeedRoles(bootCtx); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	hasher, err := utils.NewPasswordHasher(cfg.Password.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := utils.NewTokenService(cfg.JWT)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Deps{
		Store:         s,
		Hasher:        hasher,
		Tokens:        tokens,
		Logger:        logger,
		Swagger:       cfg.Swagger,
		AuthRateLimit: cfg.Server.AuthRateLimit,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen failed: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped gracefully")
	return nil
}
