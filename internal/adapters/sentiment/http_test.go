package sentiment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel_reviews/internal/adapters/sentiment"
)

func TestHTTPClassifier_Classify(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("path: %s", r.URL.Path)
		}
		var in struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Text != "great hotel" {
			t.Errorf("text: %q", in.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"label": "4 stars", "score": 0.87})
	}))
	defer ts.Close()

	cl, err := sentiment.NewHTTP(ts.URL, 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stars, conf, err := cl.Classify(ctx, "great hotel")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stars != 4 || conf != 0.87 {
		t.Fatalf("got stars=%d conf=%v", stars, conf)
	}
}

func TestHTTPClassifier_BadLabel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"label": "positive", "score": 0.9})
	}))
	defer ts.Close()

	cl, err := sentiment.NewHTTP(ts.URL, 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, _, err := cl.Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected error for non-star label")
	}
}

func TestHTTPClassifier_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	cl, err := sentiment.NewHTTP(ts.URL, 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, _, err := cl.Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestNewHTTP_RequiresBase(t *testing.T) {
	if _, err := sentiment.NewHTTP("", 5); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
