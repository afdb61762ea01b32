// Package main is the entry point for the viaggio API server.
// Its sole responsibility is wiring dependencies together and starting
// the server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/mbenedetti/viaggio/internal/config"
	"github.com/mbenedetti/viaggio/internal/guide"
	"github.com/mbenedetti/viaggio/internal/handler"
	"github.com/mbenedetti/viaggio/internal/llm"
	"github.com/mbenedetti/viaggio/internal/middleware"
	"github.com/mbenedetti/viaggio/internal/pipeline"
	"github.com/mbenedetti/viaggio/internal/planner"
	"github.com/mbenedetti/viaggio/internal/repo"
	"github.com/mbenedetti/viaggio/internal/service"
	"github.com/mbenedetti/viaggio/internal/travel"
	"github.com/mbenedetti/viaggio/migrations"
)

// maxBodyBytes bounds incoming request bodies. Chat messages are short;
// 64 KiB leaves generous headroom.
const maxBodyBytes = 64 << 10

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a local-development convenience; absence is not an error.
	//nolint:errcheck
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations up to date")

	// --- External providers -----------------------------------------------
	resolver := travel.NewIATAResolver(cfg.IATADataPath)
	amadeus := travel.NewAmadeus(cfg.AmadeusKey, cfg.AmadeusSecret, resolver, cfg.RequestTimeout)
	collector := travel.NewCollector(
		amadeus,
		travel.NewOpenWeather(cfg.WeatherKey, cfg.RequestTimeout),
		travel.NewPlaces(cfg.PlacesKey, cfg.RequestTimeout),
		travel.NewTicketmaster(cfg.TicketmasterKey, cfg.RequestTimeout),
		amadeus,
		travel.CurrencyLookup{},
		logger,
	)

	var retriever guide.Retriever = guide.NoopRetriever{}
	if cfg.GuideRepo != "" {
		retriever = guide.NewGitHubRetriever(cfg.GuideRepo, cfg.GitHubToken, cfg.RequestTimeout)
	}
	packer := guide.NewPacker(cfg.GuideMaxDocChars, cfg.GuideMaxContextChars)

	// --- Planning chain ---------------------------------------------------
	model := llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	parser := planner.NewParser(model)
	classifier := planner.NewClassifier(model)
	synthesizer := planner.NewSynthesizer(model)
	chain := pipeline.New(parser, collector, retriever, packer, synthesizer, logger)

	// --- Services ---------------------------------------------------------
	authSvc := service.NewAuthService(repo.NewUserRepo(pool), cfg.JWTSecret)
	tripSvc := service.NewTripService(
		repo.NewTripRepo(pool),
		repo.NewPlanRepo(pool),
		repo.NewInteractionRepo(pool),
	)
	sessionSvc := service.NewSessionService(chain, classifier, synthesizer, tripSvc, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger →
	// Recoverer → CORS → body limit. The auth check is applied per route
	// group inside handler.Routes.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	server := handler.NewServer(authSvc, tripSvc, sessionSvc)
	r.Mount("/", server.Routes(middleware.NewAuthHandler(authSvc)))

	// --- HTTP Server ------------------------------------------------------
	// The write timeout must cover a full pipeline run (several provider
	// calls plus two model calls), so it is far longer than a typical API's.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending schema migrations on boot. goose needs a
// database/sql handle, so a short-lived one is opened alongside the pool.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
