// main wires stores, services and transport, and keeps the server lifecycle
// small. Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kyc-gateway/internal/audit"
	"kyc-gateway/internal/extraction"
	extractionmetrics "kyc-gateway/internal/extraction/metrics"
	"kyc-gateway/internal/fraud"
	"kyc-gateway/internal/government"
	governmentmetrics "kyc-gateway/internal/government/metrics"
	"kyc-gateway/internal/locality"
	"kyc-gateway/internal/platform/config"
	"kyc-gateway/internal/platform/httpserver"
	"kyc-gateway/internal/platform/logger"
	"kyc-gateway/internal/platform/middleware"
	platformredis "kyc-gateway/internal/platform/redis"
	"kyc-gateway/internal/stage"
	"kyc-gateway/internal/storage"
	"kyc-gateway/internal/workflow"
	"kyc-gateway/internal/workflow/handler"
	workflowmetrics "kyc-gateway/internal/workflow/metrics"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Stores: postgres for applications and stages when configured, memory
	// otherwise. Users and documents stay in memory in this deployment.
	users := storage.NewInMemoryUserStore()
	docs := storage.NewInMemoryDocumentStore()
	var (
		apps   storage.ApplicationStore = storage.NewInMemoryApplicationStore()
		stages storage.StageStore       = storage.NewInMemoryStageStore()
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		apps = storage.NewPostgresApplicationStore(db)
		stages = storage.NewPostgresStageStore(db)
		log.Info("using postgres stores")
	}

	// Government lookup cache: redis when configured, in-process otherwise.
	var govCache government.Cache = government.NewMemoryCache(config.GovCacheTTL)
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		govCache = government.NewRedisCache(redisClient, config.GovCacheTTL)
		log.Info("using redis government cache")
	}

	// Audit trail: always stored locally, mirrored to Kafka when brokers are
	// configured.
	auditOpts := []audit.Option{audit.WithAsyncBuffer(256)}
	var kafkaSink *audit.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err = audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("kafka sink setup failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditOpts = append(auditOpts, audit.WithSink(kafkaSink))
		log.Info("publishing audit events to kafka", "topic", cfg.AuditTopic)
	}
	auditPub := audit.NewPublisher(audit.NewInMemoryStore(), log, auditOpts...)
	defer auditPub.Close()

	tracker := stage.NewTracker(apps, stages, users, auditPub, log)
	svc := workflow.NewService(workflow.Deps{
		Users:      users,
		Apps:       apps,
		Docs:       docs,
		Stages:     stages,
		Extraction: extraction.NewService(extraction.NewMockExtractor(100*time.Millisecond), docs, extractionmetrics.New(), log),
		Gate:       locality.NewGate(cfg.TargetCountry),
		Government: government.NewService(government.NewMockRecordStore(), govCache, governmentmetrics.New(), log),
		Fraud:      fraud.NewEngine(log),
		Tracker:    tracker,
		Audit:      auditPub,
		Metrics:    workflowmetrics.New(),
		Logger:     log,
	})

	h := handler.New(svc, log)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	h.RegisterPublic(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSigningKey, log))
		h.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting kyc-gateway", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
