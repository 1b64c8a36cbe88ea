package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-management-api/api/swagger"
	"github.com/noah-isme/student-management-api/internal/handler"
	"github.com/noah-isme/student-management-api/internal/repository"
	"github.com/noah-isme/student-management-api/internal/router"
	"github.com/noah-isme/student-management-api/internal/service"
	"github.com/noah-isme/student-management-api/pkg/config"
	"github.com/noah-isme/student-management-api/pkg/database"
	"github.com/noah-isme/student-management-api/pkg/logger"
)

// @title Student Management API
// @version 1.0.0
// @description Students, courses and enrollment
// @BasePath /
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validator.New()
	students := service.NewStudentService(repository.NewStudentRepository(db, metrics), validate, logr.Named("students"))
	courses := service.NewCourseService(repository.NewCourseRepository(db, metrics), validate, logr.Named("courses"))

	engine := router.New(cfg, router.Dependencies{
		StudentHandler: handler.NewStudentHandler(students),
		CourseHandler:  handler.NewCourseHandler(courses),
		MetricsHandler: handler.NewMetricsHandler(metrics, db),
		Metrics:        metrics,
		Logger:         logr,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
