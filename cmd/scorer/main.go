// Command scorer precomputes aspect scores for persisted reviews into the
// score cache, so the synchronous /analyze-review path serves warmed results.
// Hotel IDs to process are passed as arguments.
package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_reviews/internal/adapters/observability"
	redisad "hotel_reviews/internal/adapters/redis"
	"hotel_reviews/internal/adapters/sentiment"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	hotelIDs, err := parseHotelIDs(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("usage: scorer <hotelID> [hotelID ...]")
	}
	log.Info().Ints64("hotels", hotelIDs).Int("workers", cfg.ScorerWorkers).Msg("batch scorer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cls := newClassifier(cfg)
	scorer := app.NewAspectScorer(cls, cfg.ClassifierMax)
	scoring := app.NewScoringService(scorer, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.ScorerWorkers))
	var wg sync.WaitGroup

	for _, id := range hotelIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			n, err := warmHotel(ctx, repo, scoring, hotelID, cfg.ScorerRevLimit)
			if err != nil {
				log.Warn().Int64("id", hotelID).Err(err).Msg("warm failed")
				return
			}
			log.Info().Int64("id", hotelID).Int("reviews", n).Msg("scores warmed")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("batch scoring completed")
}

func warmHotel(ctx context.Context, repo *mysqlrepo.Repo, scoring *app.ScoringService, hotelID int64, limit int) (int, error) {
	rs, err := repo.ListReviews(ctx, hotelID, limit)
	if err != nil {
		return 0, err
	}
	for _, rv := range rs {
		if _, err := scoring.Analyze(ctx, rv.Content); err != nil {
			return 0, err
		}
	}
	return len(rs), nil
}

func parseHotelIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, strconv.ErrSyntax
	}
	out := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
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
