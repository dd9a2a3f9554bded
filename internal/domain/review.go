package domain

import "time"

// Review is one extracted review fragment, validated by the extractor.
// Content is always non-empty; every other field may carry a default.
// The four aggregate ratings are page-level and nullable: nil means the
// label was absent on the page, which is distinct from a real 0.0.
type Review struct {
	ID          int64
	HotelID     int64
	Author      string
	Subject     string
	Content     string
	Date        time.Time
	Rating      float64
	Cleanliness *float64
	Location    *float64
	Service     *float64
	Value       *float64
}

// AggregateRatings are the page-level sub-scores shared by every review
// extracted from that page.
type AggregateRatings struct {
	Cleanliness *float64
	Location    *float64
	Service     *float64
	Value       *float64
}

// CategoryScores maps the eight fixed aspect categories, plus the derived
// OverallRating, to scores in [1.0, 10.0].
type CategoryScores map[string]float64
