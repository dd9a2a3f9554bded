package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_reviews/internal/adapters/http_server"
	"hotel_reviews/internal/adapters/observability"
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/adapters/sentiment"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cls := newClassifier(cfg)
	scorer := app.NewAspectScorer(cls, cfg.ClassifierMax)
	scoring := app.NewScoringService(scorer, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Scoring: scoring, Repo: repo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// newClassifier prefers the dedicated inference endpoint; OpenAI is the
// fallback backend.
func newClassifier(cfg shared.Config) domain.Classifier {
	if cfg.SentimentBase != "" {
		cls, err := sentiment.NewHTTP(cfg.SentimentBase, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize sentiment client")
		}
		return cls
	}
	cls, err := sentiment.NewOpenAI(cfg.OpenAIKey, 3)
	if err != nil {
		log.Fatal().Err(err).Msg("no classifier backend configured")
	}
	return cls
}
