package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyContent = errors.New("no review content provided")
)

type ReviewRepository interface {
	// FindHotelByName does a case-insensitive substring match against
	// GlobalPropertyName and returns the first match. The tie-break among
	// multiple matches is implementation-defined.
	FindHotelByName(ctx context.Context, hint string) (Hotel, error)

	// ReplaceReviews deletes every existing review for the hotel and inserts
	// the new set in a single transaction. An empty set leaves zero rows.
	ReplaceReviews(ctx context.Context, hotelID int64, rs []Review) error

	ListReviews(ctx context.Context, hotelID int64, limit int) ([]Review, error)
}

// Classifier is the sentiment classification capability: star rating 1..5
// plus confidence in [0,1] for a text span. Implementations must be safe for
// concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (stars int, confidence float64, err error)
}

// PageFetcher returns the rendered markup of one hotel page. Page
// acquisition strategy (plain GET, headless browser) is the adapter's
// concern; the pipeline only consumes the bytes.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
