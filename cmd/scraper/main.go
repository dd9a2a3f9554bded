package main

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/adapters/observability"
	"hotel_reviews/internal/adapters/pages"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/shared"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	urls, err := readURLs(cfg.HotelsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.HotelsFile).Msg("failed to read hotel URL list")
	}
	log.Info().Int("urls", len(urls)).Str("file", cfg.HotelsFile).Msg("scraper starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	fetcher := pages.New(cfg.FetchRPS)
	svc := app.NewScrapeService(fetcher, repo)

	// One URL at a time; each URL's failure is contained to its outcome.
	outcomes := svc.Run(ctx, urls)

	var ok, skipped, failed, inserted int
	for _, o := range outcomes {
		observability.ObserveScrape(string(o.Status))
		switch o.Status {
		case app.StatusOK:
			ok++
			inserted += o.Inserted
			observability.ObserveReplaced(o.Inserted)
		case app.StatusSkipped:
			skipped++
		case app.StatusFailed:
			failed++
		}
	}
	log.Info().
		Int("ok", ok).
		Int("skipped", skipped).
		Int("failed", failed).
		Int("reviews", inserted).
		Msg("scrape run completed")
}

// readURLs loads the newline-delimited URL list; blank lines are ignored.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, sc.Err()
}
