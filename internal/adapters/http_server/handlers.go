package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/app"
	"hotel_reviews/internal/domain"
)

type Handlers struct {
	Scoring *app.ScoringService
	Repo    domain.ReviewRepository
}

type analyzeRequest struct {
	Content string `json:"content"`
}

type reviewDTO struct {
	ID            int64    `json:"id"`
	HotelID       int64    `json:"hotelId"`
	ReviewerName  string   `json:"reviewerName"`
	Subject       string   `json:"subject"`
	Content       string   `json:"content"`
	Date          string   `json:"date"`
	OverallRating float64  `json:"overallRating"`
	Cleanliness   *float64 `json:"cleanliness"`
	Location      *float64 `json:"location"`
	Service       *float64 `json:"service"`
	Value         *float64 `json:"value"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// The scoring route is consumed directly by browsers.
	s.mux.Group(func(g chi.Router) {
		g.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))
		g.Post("/analyze-review", h.analyzeReview)
	})

	s.mux.Get("/v1/hotels/{id}/reviews", h.listReviews)
}

// writeError emits the flat {"error": ...} body the scoring clients expect.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

func (h *Handlers) analyzeReview(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No review content provided")
		return
	}
	scores, err := h.Scoring.Analyze(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, "No review content provided")
			return
		}
		log.Error().Err(err).Msg("analyze review failed")
		writeError(w, http.StatusBadGateway, "scoring unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(scores); err != nil {
		log.Error().Err(err).Msg("failed to write analyzeReview body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a number")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	rs, err := h.Repo.ListReviews(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reviews unavailable")
		return
	}

	out := make([]reviewDTO, 0, len(rs))
	for _, rv := range rs {
		out = append(out, reviewDTO{
			ID:            rv.ID,
			HotelID:       rv.HotelID,
			ReviewerName:  rv.Author,
			Subject:       rv.Subject,
			Content:       rv.Content,
			Date:          rv.Date.Format(time.DateOnly),
			OverallRating: rv.Rating,
			Cleanliness:   rv.Cleanliness,
			Location:      rv.Location,
			Service:       rv.Service,
			Value:         rv.Value,
		})
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}
