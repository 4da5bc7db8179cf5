package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio-service/folio_service/internal/infrastructure/config"
	"github.com/folio-service/folio_service/internal/infrastructure/database"
	"github.com/folio-service/folio_service/internal/infrastructure/di"
	"github.com/folio-service/folio_service/pkg/jobqueue"
	"github.com/folio-service/folio_service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)

	if err := database.Migrate(cfg.Database.URL, "migrations", log.Zap()); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	container, err := di.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to build dependency container", "error", err)
	}
	defer container.Close()

	if cfg.Revaluation.Enabled {
		err := container.Scheduler.AddJob(jobqueue.ScheduledJob{
			Name:     "revaluation",
			Schedule: cfg.Revaluation.Schedule,
			Handler: func(ctx context.Context) error {
				_, err := container.RevaluationJob.Run(ctx)
				return err
			},
		})
		if err != nil {
			log.Fatal("Failed to schedule revaluation job", "error", err)
		}
		container.Scheduler.Start()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      container.Router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Infow("Server starting",
			"addr", server.Addr,
			"environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Forced shutdown", "error", err)
	}
	log.Infow("Server stopped")
}
