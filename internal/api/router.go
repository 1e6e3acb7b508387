package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/slmforge/trainbench/internal/api/handlers"
	"github.com/slmforge/trainbench/internal/api/middleware"
	"github.com/slmforge/trainbench/internal/cache"
	"github.com/slmforge/trainbench/internal/config"
	"github.com/slmforge/trainbench/internal/dataset"
	"github.com/slmforge/trainbench/internal/evaluation"
	"github.com/slmforge/trainbench/internal/experiment"
	"github.com/slmforge/trainbench/internal/metrics"
	"github.com/slmforge/trainbench/internal/queue"
	"github.com/slmforge/trainbench/internal/registry"
	"github.com/slmforge/trainbench/internal/storage"
	"github.com/slmforge/trainbench/internal/webhook"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	store storage.Storage
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, store storage.Storage, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		store: store,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/health", health.Health)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	// Initialize services
	queueClient := queue.NewClient(rt.cfg.Redis)
	dispatcher := webhook.NewDispatcher(rt.db)
	webhookSvc := webhook.NewService(rt.db, dispatcher)
	datasetSvc := dataset.NewService(rt.db, rt.store)
	registrySvc := registry.NewService(rt.db)
	experimentSvc := experiment.NewService(rt.db, queueClient, rt.cfg.Training)
	evaluationSvc := evaluation.NewService(rt.db, cache.NewCache(rt.redis))

	// Dataset routes
	datasetH := handlers.NewDatasetHandler(datasetSvc)
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/upload", datasetH.Upload)
		r.Get("/", datasetH.List)
		r.Get("/{id}", datasetH.Get)
		r.Get("/{id}/download", datasetH.Download)
	})

	// Model routes
	modelH := handlers.NewModelHandler(registrySvc)
	r.Route("/models", func(r chi.Router) {
		r.Get("/", modelH.List)
		r.Get("/{id}", modelH.Get)
	})

	// Experiment routes
	experimentH := handlers.NewExperimentHandler(experimentSvc)
	r.Route("/experiments", func(r chi.Router) {
		r.Post("/", experimentH.Create)
		r.Get("/", experimentH.List)
		r.Get("/{id}", experimentH.Get)
	})

	// Evaluation routes
	evaluationH := handlers.NewEvaluationHandler(evaluationSvc)
	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/", evaluationH.List)
		r.Get("/{id}", evaluationH.Get)
	})

	// Webhook management routes
	webhookH := handlers.NewWebhookHandler(webhookSvc)
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/", webhookH.Create)
		r.Get("/", webhookH.List)
		r.Delete("/{id}", webhookH.Delete)
	})

	return r
}
