// Package sentiment provides classifier adapters implementing
// domain.Classifier: an HTTP inference endpoint and an OpenAI fallback.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_reviews/internal/adapters/observability"
)

// HTTPClassifier talks to a text-classification inference endpoint serving a
// 1..5-star sentiment model. The endpoint answers
// {"label": "4 stars", "score": 0.87}.
type HTTPClassifier struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func NewHTTP(base string, rps int) (*HTTPClassifier, error) {
	if base == "" {
		return nil, fmt.Errorf("inference base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &HTTPClassifier{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (int, float64, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, 0, err
	}

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/classify", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}
		return 0, 0, err
	}
	defer resp.Body.Close()
	observability.ObserveClassifier("http", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, 0, fmt.Errorf("classifier status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, err
	}
	return parseResult(out.Label, out.Score)
}

// parseResult reads the star count from the label's leading digit
// ("4 stars" -> 4) and bounds-checks both values.
func parseResult(label string, score float64) (int, float64, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, 0, fmt.Errorf("empty classifier label")
	}
	stars := int(label[0] - '0')
	if stars < 1 || stars > 5 {
		return 0, 0, fmt.Errorf("unexpected classifier label %q", label)
	}
	if score < 0 || score > 1 {
		return 0, 0, fmt.Errorf("classifier confidence %v out of range", score)
	}
	return stars, score, nil
}
