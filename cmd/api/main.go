package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/mindanalyzer/internal/application/analysis"
	"github.com/bryanwahyu/mindanalyzer/internal/config"
	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
	domfail "github.com/bryanwahyu/mindanalyzer/internal/domain/failures"
	aiopenai "github.com/bryanwahyu/mindanalyzer/internal/infra/ai/openai"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/ai/prompt"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/ai/yandex"
	infraauth "github.com/bryanwahyu/mindanalyzer/internal/infra/auth"
	infracrypto "github.com/bryanwahyu/mindanalyzer/internal/infra/crypto"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/db/mysql"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/httpserver"
	"github.com/bryanwahyu/mindanalyzer/internal/infra/templates"
	"github.com/bryanwahyu/mindanalyzer/internal/i18n"
	"github.com/bryanwahyu/mindanalyzer/internal/logger"
	"github.com/bryanwahyu/mindanalyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "mindanalyzer",
	})

	// Secrets and the encryption key are startup preconditions: fail
	// here, never per request.
	secrets, err := config.LoadSecrets(cfg.Upstream.Provider)
	if err != nil {
		log.Fatal().Err(err).Msg("secrets not configured")
	}
	codec, err := infracrypto.NewCodecFromBase64(secrets.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("encryption key rejected")
	}
	resolver, err := infraauth.NewJWTResolver(secrets.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("auth resolver rejected")
	}

	ctx := context.Background()

	// connect database
	var repo domain.Repository
	var failureRepo domfail.Repository
	var dbChecker middleware.HealthChecker
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect error")
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepository(db)
		failureRepo = postgres.NewFailureRepository(db)
		dbChecker = &middleware.DatabaseHealthChecker{DB: db}
	default:
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect error")
		}
		defer db.Close()
		repo = mysql.NewAnalysisRepository(db)
		failureRepo = mysql.NewFailureRepository(db)
		dbChecker = &middleware.DatabaseHealthChecker{DB: db}
	}

	// template store
	var store domain.TemplateStore
	switch cfg.Templates.Source {
	case "minio":
		store, err = templates.NewMinioStore(ctx,
			cfg.Templates.Minio.Endpoint,
			cfg.Templates.Minio.Region,
			cfg.Templates.Minio.Bucket,
			cfg.Templates.Minio.Prefix,
			cfg.Templates.Minio.AccessKey,
			cfg.Templates.Minio.SecretKey,
			cfg.Templates.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio template store init error")
		}
	default:
		store = templates.NewFSStore(cfg.Templates.Dir)
	}

	// A missing template is fatal at startup, not a per-request error
	assembler := prompt.New(store)
	if err := assembler.Warm(ctx); err != nil {
		log.Fatal().Err(err).Msg("prompt templates incomplete")
	}

	// completion gateway
	var completer domain.Completer
	switch cfg.Upstream.Provider {
	case "openai":
		completer = aiopenai.NewClient(secrets.UpstreamAPIKey, cfg.Upstream.Model, log.With().Str("component", "openai").Logger())
	default:
		completer = yandex.New(secrets.UpstreamAPIKey, cfg.Upstream.FolderID, log.With().Str("component", "yandex").Logger())
	}

	catalog, err := i18n.New()
	if err != nil {
		log.Fatal().Err(err).Msg("error catalog init error")
	}

	svc := &appanalysis.Service{
		Prompts:   assembler,
		Completer: completer,
		Codec:     codec,
		Repo:      repo,
		Failures:  failureRepo,
		Clock:     appanalysis.SystemClock{},
		Log:       log.With().Str("component", "pipeline").Logger(),
	}

	checkers := map[string]middleware.HealthChecker{
		"database":  dbChecker,
		"templates": &middleware.TemplateHealthChecker{Warm: assembler.Warm},
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.AccessLog(log.With().Str("component", "http").Logger()))
	mux.Use(middleware.CollectMetrics)
	mux.Use(middleware.BodyGuard)
	mux.Use(middleware.BearerAuth(resolver))
	mux.Use(middleware.RateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(svc, catalog, checkers, log.With().Str("component", "router").Logger()))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second, // must outlive the 30s upstream call
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
