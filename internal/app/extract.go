package app

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/pagemodel"
)

/********** selectors (single source of truth) **********/

var (
	selFragment    = pagemodel.Sel("div.Review-comment-bubble")
	selTitle       = pagemodel.Sel(`h4[data-testid=review-title]`)
	selContent     = pagemodel.Sel(`p[data-testid=review-comment]`)
	selScore       = pagemodel.Sel("div.Review-comment-leftScore")
	selComment     = pagemodel.Sel("div.Review-comment")
	selReviewer    = pagemodel.Sel("div.Review-comment-reviewer")
	selStrong      = pagemodel.Sel("strong")
	selRatingLabel = pagemodel.Sel("span")
	selRatingItem  = pagemodel.Sel("li")
)

var (
	reDecimal  = regexp.MustCompile(`(\d+\.\d+)`)
	reReviewed = regexp.MustCompile(`Reviewed\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
)

const reviewedLayout = "January 2, 2006"

const (
	defaultSubject = "No Title"
	defaultAuthor  = "guest"
)

/********** page parsing **********/

// PageData is everything one rendered page contributes: a lookup hint for
// the hotel, the page-level aggregate ratings, and the raw review fragments.
type PageData struct {
	HotelName  string
	Aggregates domain.AggregateRatings
	Fragments  []*pagemodel.Node
}

// HotelNameFromURL derives a display-name lookup hint from the first path
// segment of the page URL: "grand-plaza-hotel" -> "Grand Plaza Hotel".
// It is only a hint for the resolver, never a stored identifier.
func HotelNameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	slug := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(slug, '/'); i >= 0 {
		slug = slug[:i]
	}
	if slug == "" {
		return "", fmt.Errorf("no hotel slug in url %q", raw)
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " "), nil
}

// ParsePage turns one rendered page into its hotel hint, aggregate ratings,
// and raw review fragments.
func ParsePage(doc *pagemodel.Document, pageURL string) (PageData, error) {
	name, err := HotelNameFromURL(pageURL)
	if err != nil {
		return PageData{}, err
	}
	return PageData{
		HotelName: name,
		Aggregates: domain.AggregateRatings{
			Cleanliness: aggregateRating(doc, "Cleanliness"),
			Location:    aggregateRating(doc, "Location"),
			Service:     aggregateRating(doc, "Service"),
			Value:       aggregateRating(doc, "Value"),
		},
		Fragments: doc.Find(selFragment),
	}, nil
}

// aggregateRating finds a label span matching the category name, walks up to
// its list item, and takes the first decimal number in that item's text.
// Absent label or number means nil: "unknown", not zero.
func aggregateRating(doc *pagemodel.Document, label string) *float64 {
	re := regexp.MustCompile(`(?i)` + label)
	span := doc.FindByText(selRatingLabel, re)
	if span == nil {
		return nil
	}
	item := span.Closest(selRatingItem)
	if item == nil {
		return nil
	}
	m := reDecimal.FindString(item.Text())
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

/********** fragment extraction **********/

// Outcome tags how a field was obtained, so defaulting is explicit rather
// than hidden behind suppressed parse errors.
type Outcome uint8

const (
	Found Outcome = iota
	Defaulted
)

// Extraction is one extracted review plus the per-field outcome tags.
type Extraction struct {
	Review domain.Review

	Subject Outcome
	Rating  Outcome
	Author  Outcome
	Date    Outcome
}

// ExtractReview turns one fragment into a validated review. Missing content
// is the only hard-fail condition and yields nil; every other field degrades
// to its documented default. Pure transform, no side effects.
func ExtractReview(frag *pagemodel.Node, agg domain.AggregateRatings, now time.Time) *Extraction {
	content := ""
	if el := frag.FindFirst(selContent); el != nil {
		content = strings.TrimSpace(el.Text())
	}
	if content == "" {
		return nil
	}

	ex := &Extraction{Review: domain.Review{
		Content:     content,
		Cleanliness: agg.Cleanliness,
		Location:    agg.Location,
		Service:     agg.Service,
		Value:       agg.Value,
	}}

	ex.Review.Subject, ex.Subject = extractSubject(frag)
	ex.Review.Rating, ex.Rating = extractRating(frag)
	ex.Review.Author, ex.Author = extractAuthor(frag)
	ex.Review.Date, ex.Date = extractDate(frag, now)
	return ex
}

func extractSubject(frag *pagemodel.Node) (string, Outcome) {
	if el := frag.FindFirst(selTitle); el != nil {
		if t := strings.TrimSpace(el.Text()); t != "" {
			return t, Found
		}
	}
	return defaultSubject, Defaulted
}

// extractRating reads the numeric score badge preceding the bubble. Parse
// failure and absence both default to 0.0, which is distinct from the
// aggregates' nil "unknown".
func extractRating(frag *pagemodel.Node) (float64, Outcome) {
	el := frag.FindPrevious(selScore)
	if el == nil {
		return 0.0, Defaulted
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(el.Text()), 64)
	if err != nil {
		return 0.0, Defaulted
	}
	return f, Found
}

func extractAuthor(frag *pagemodel.Node) (string, Outcome) {
	comment := frag.Closest(selComment)
	if comment == nil {
		return defaultAuthor, Defaulted
	}
	reviewer := comment.FindFirst(selReviewer)
	if reviewer == nil {
		return defaultAuthor, Defaulted
	}
	name := reviewer.FindFirst(selStrong)
	if name == nil {
		return defaultAuthor, Defaulted
	}
	if t := strings.TrimSpace(name.Text()); t != "" {
		return t, Found
	}
	return defaultAuthor, Defaulted
}

// extractDate parses the "Reviewed <Month> <Day>, <Year>" line. Absence or
// parse failure defaults to the run date, never nil: dates are required for
// downstream sorting and display.
func extractDate(frag *pagemodel.Node, now time.Time) (time.Time, Outcome) {
	runDate := now.UTC().Truncate(24 * time.Hour)
	text := frag.FindTextMatch(reReviewed)
	if text == "" {
		return runDate, Defaulted
	}
	m := reReviewed.FindStringSubmatch(text)
	if m == nil {
		return runDate, Defaulted
	}
	d, err := time.Parse(reviewedLayout, normalizeSpaces(m[1]))
	if err != nil {
		return runDate, Defaulted
	}
	return d, Found
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
