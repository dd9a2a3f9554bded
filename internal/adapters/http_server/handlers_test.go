package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "hotel_reviews/internal/adapters/http_server"
	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
)

type fixedClassifier struct {
	stars int
	conf  float64
}

func (f *fixedClassifier) Classify(ctx context.Context, text string) (int, float64, error) {
	return f.stars, f.conf, nil
}

type stubRepo struct {
	reviews []domain.Review
}

func (s *stubRepo) FindHotelByName(ctx context.Context, hint string) (domain.Hotel, error) {
	return domain.Hotel{}, domain.ErrNotFound
}

func (s *stubRepo) ReplaceReviews(ctx context.Context, hotelID int64, rs []domain.Review) error {
	return nil
}

func (s *stubRepo) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	return s.reviews, nil
}

func newTestServer(t *testing.T, repo domain.ReviewRepository) http.Handler {
	t.Helper()
	scorer := app.NewAspectScorer(&fixedClassifier{stars: 4, conf: 0.5}, 512)
	scoring := app.NewScoringService(scorer, nil, time.Minute)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Scoring: scoring, Repo: repo})
	return srv.Mux()
}

func TestAnalyzeReview_OK(t *testing.T) {
	h := newTestServer(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/analyze-review",
		strings.NewReader(`{"content": "The staff was friendly and the room was clean."}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body.String())
	}
	var scores map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scores) != 9 {
		t.Fatalf("expected 8 categories + OverallRating, got %d keys", len(scores))
	}
	// stars=4, conf=0.5 -> every score 7.0
	if scores["OverallRating"] != 7.0 {
		t.Fatalf("overall: %v", scores["OverallRating"])
	}
	for _, cat := range []string{"CleanlinessRate", "ServiceRating", "ValueRating"} {
		if _, ok := scores[cat]; !ok {
			t.Fatalf("missing category %s", cat)
		}
	}
}

func TestAnalyzeReview_EmptyContent(t *testing.T) {
	h := newTestServer(t, &stubRepo{})

	for _, body := range []string{`{"content": ""}`, `{}`, ``} {
		req := httptest.NewRequest(http.MethodPost, "/analyze-review", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status %d", body, rr.Code)
		}
		var out map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("body %q: decode: %v", body, err)
		}
		if out["error"] != "No review content provided" {
			t.Fatalf("body %q: error %q", body, out["error"])
		}
	}
}

func TestListReviews(t *testing.T) {
	cl := 8.5
	repo := &stubRepo{reviews: []domain.Review{{
		ID:          1,
		HotelID:     7,
		Author:      "Dana",
		Subject:     "Great stay",
		Content:     "Lovely room.",
		Date:        time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
		Rating:      9.2,
		Cleanliness: &cl,
	}}}
	h := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/7/reviews", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	var out []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0]["reviewerName"] != "Dana" || out[0]["date"] != "2025-08-12" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if out[0]["location"] != nil {
		t.Fatalf("absent aggregate should be null, got %v", out[0]["location"])
	}

	// Conditional revalidation round-trip.
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}
	req2 := httptest.NewRequest(http.MethodGet, "/v1/hotels/7/reviews", nil)
	req2.Header.Set("If-None-Match", etag)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr2.Code)
	}
}

func TestListReviews_BadLimit(t *testing.T) {
	h := newTestServer(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/7/reviews?limit=0", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rr.Code)
	}
}
