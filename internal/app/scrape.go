package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/pagemodel"
)

// ScrapeService runs the ingestion pipeline: fetch page, parse fragments,
// extract reviews, resolve the hotel, replace its review set. URLs are
// processed sequentially, one at a time, and each URL's failure is contained
// to its own outcome record.
type ScrapeService struct {
	fetch domain.PageFetcher
	repo  domain.ReviewRepository
	now   func() time.Time
}

func NewScrapeService(f domain.PageFetcher, r domain.ReviewRepository) *ScrapeService {
	return &ScrapeService{fetch: f, repo: r, now: time.Now}
}

type URLStatus string

const (
	StatusOK      URLStatus = "ok"
	StatusSkipped URLStatus = "skipped"
	StatusFailed  URLStatus = "failed"
)

// URLOutcome records what happened to one hotel URL. A skipped URL is a
// normal condition (hotel not in the database); a failed one carries the
// error that stopped it.
type URLOutcome struct {
	URL       string
	Status    URLStatus
	Hotel     string
	HotelID   int64
	Fragments int
	Inserted  int
	Err       error
}

// Run processes every URL in order and returns one outcome per URL. No
// URL's failure aborts the batch.
func (s *ScrapeService) Run(ctx context.Context, urls []string) []URLOutcome {
	out := make([]URLOutcome, 0, len(urls))
	for _, u := range urls {
		o := s.ProcessURL(ctx, u)
		switch o.Status {
		case StatusOK:
			log.Info().Str("url", o.URL).Str("hotel", o.Hotel).
				Int("fragments", o.Fragments).Int("inserted", o.Inserted).
				Msg("reviews replaced")
		case StatusSkipped:
			log.Warn().Str("url", o.URL).Str("hotel", o.Hotel).Msg("hotel not found in db")
		case StatusFailed:
			log.Error().Str("url", o.URL).Err(o.Err).Msg("scrape failed")
		}
		out = append(out, o)
	}
	return out
}

// ProcessURL handles one hotel page end to end.
func (s *ScrapeService) ProcessURL(ctx context.Context, pageURL string) URLOutcome {
	o := URLOutcome{URL: pageURL}

	body, err := s.fetch.Fetch(ctx, pageURL)
	if err != nil {
		o.Status = StatusFailed
		o.Err = fmt.Errorf("fetch: %w", err)
		return o
	}

	doc, err := pagemodel.Parse(bytes.NewReader(body))
	if err != nil {
		o.Status = StatusFailed
		o.Err = fmt.Errorf("parse page: %w", err)
		return o
	}

	page, err := ParsePage(doc, pageURL)
	if err != nil {
		o.Status = StatusFailed
		o.Err = err
		return o
	}
	o.Hotel = page.HotelName
	o.Fragments = len(page.Fragments)

	hotel, err := s.repo.FindHotelByName(ctx, page.HotelName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			o.Status = StatusSkipped
			return o
		}
		o.Status = StatusFailed
		o.Err = fmt.Errorf("resolve hotel: %w", err)
		return o
	}
	o.HotelID = hotel.ID

	now := s.now()
	reviews := make([]domain.Review, 0, len(page.Fragments))
	for _, frag := range page.Fragments {
		ex := ExtractReview(frag, page.Aggregates, now)
		if ex == nil {
			continue // fragment without content is not a review
		}
		rv := ex.Review
		rv.HotelID = hotel.ID
		reviews = append(reviews, rv)
	}

	// Full replace: the run is the sole source of truth for this hotel's
	// reviews, even when the new set is empty.
	if err := s.repo.ReplaceReviews(ctx, hotel.ID, reviews); err != nil {
		o.Status = StatusFailed
		o.Err = fmt.Errorf("replace reviews: %w", err)
		return o
	}
	o.Status = StatusOK
	o.Inserted = len(reviews)
	return o
}
