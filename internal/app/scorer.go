package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"hotel_reviews/internal/domain"
)

// The eight fixed aspect categories and their gating keywords. Matching is
// case-insensitive substring over sentence-like units.
var categoryKeywords = map[string][]string{
	"AmenitiesRate":   {"pool", "gym", "spa", "sauna", "fitness", "jacuzzi"},
	"CleanlinessRate": {"clean", "dirty", "hygiene", "tidy"},
	"FoodBeverage":    {"food", "breakfast", "restaurant", "drink", "buffet"},
	"SleepQuality":    {"bed", "sleep", "quiet", "pillow", "noise"},
	"InternetQuality": {"wifi", "internet", "network", "signal", "connection"},
	"LocationRating":  {"location", "area", "near", "neighborhood", "walk", "distance"},
	"ServiceRating":   {"staff", "service", "helpful", "friendly", "reception", "support"},
	"ValueRating":     {"price", "value", "worth", "cost", "expensive", "cheap", "deal"},
}

// categoryOrder fixes iteration order so classifier calls and their metrics
// are deterministic for a given text.
var categoryOrder = []string{
	"AmenitiesRate",
	"CleanlinessRate",
	"FoodBeverage",
	"SleepQuality",
	"InternetQuality",
	"LocationRating",
	"ServiceRating",
	"ValueRating",
}

const OverallKey = "OverallRating"

// AspectScorer maps review text to per-category scores by gating the text on
// category keywords and wrapping a sentiment classification capability with a
// fixed scaling formula.
type AspectScorer struct {
	cls      domain.Classifier
	maxInput int
}

func NewAspectScorer(cls domain.Classifier, maxInput int) *AspectScorer {
	if maxInput <= 0 {
		maxInput = 512
	}
	return &AspectScorer{cls: cls, maxInput: maxInput}
}

// Score produces the full category score set for one review text, plus the
// derived OverallRating. Every category always scores: when no unit matches
// its keywords the entire text is scored instead.
func (s *AspectScorer) Score(ctx context.Context, text string) (domain.CategoryScores, error) {
	lower := strings.ToLower(text)
	units := strings.Split(lower, ".")

	scores := make(domain.CategoryScores, len(categoryOrder)+1)
	sum := 0.0
	for _, cat := range categoryOrder {
		span := gate(units, categoryKeywords[cat], text)
		sc, err := s.scoreSpan(ctx, span)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", cat, err)
		}
		scores[cat] = sc
		sum += sc
	}
	scores[OverallKey] = round1(sum / float64(len(categoryOrder)))
	return scores, nil
}

// gate selects the units containing at least one keyword; zero matches fall
// back to the whole original text so a category is never left without data.
func gate(units []string, keywords []string, full string) string {
	var matched []string
	for _, u := range units {
		for _, k := range keywords {
			if strings.Contains(u, k) {
				matched = append(matched, u)
				break
			}
		}
	}
	if len(matched) == 0 {
		return full
	}
	return strings.Join(matched, ". ")
}

// scoreSpan feeds the span to the classifier and applies the scaling:
// raw = stars + confidence - 1, scaled = round(raw*2, 1), clamped to [1, 10].
func (s *AspectScorer) scoreSpan(ctx context.Context, span string) (float64, error) {
	stars, conf, err := s.cls.Classify(ctx, truncate(span, s.maxInput))
	if err != nil {
		return 0, err
	}
	raw := float64(stars) + conf - 1
	scaled := round1(raw * 2)
	return clamp(scaled, 1.0, 10.0), nil
}

// truncate cuts at a fixed rune limit; deliberately not sentence-aware.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func clamp(f, lo, hi float64) float64 {
	return math.Min(math.Max(f, lo), hi)
}
