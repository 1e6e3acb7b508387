package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/hibiken/asynq"

	"github.com/slmforge/trainbench/internal/config"
	"github.com/slmforge/trainbench/internal/database"
	"github.com/slmforge/trainbench/internal/evaluation"
	"github.com/slmforge/trainbench/internal/metrics"
	"github.com/slmforge/trainbench/internal/queue"
	"github.com/slmforge/trainbench/internal/queue/workers"
	"github.com/slmforge/trainbench/internal/registry"
	"github.com/slmforge/trainbench/internal/training"
	"github.com/slmforge/trainbench/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	dispatcher := webhook.NewDispatcher(db)
	webhookSvc := webhook.NewService(db, dispatcher)
	registrySvc := registry.NewService(db)
	// The worker only inserts evaluations, so it skips the read cache.
	evaluationSvc := evaluation.NewService(db, nil)
	runner := training.NewRunner(db, registrySvc, evaluationSvc, webhookSvc, cfg.Training)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	mux := queue.NewMux()

	trainingWorker := workers.NewTrainingWorker(runner)
	mux.Handle(queue.TypeTrainingRun, asynq.HandlerFunc(trainingWorker.ProcessTask))

	go func() {
		httpMux := http.NewServeMux()
		httpMux.Handle("/metrics", metrics.Handler())
		slog.Info("starting worker metrics listener", "addr", cfg.Metrics.WorkerAddr)
		if err := http.ListenAndServe(cfg.Metrics.WorkerAddr, httpMux); err != nil {
			slog.Warn("metrics listener stopped", "error", err)
		}
	}()

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(mux.Handler()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
