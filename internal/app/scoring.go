package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"hotel_reviews/internal/domain"
)

// ScoringService is the stateless request/response wrapper around the aspect
// scorer. Identical texts come back from the cache; the classifier itself is
// the only shared state and must be safe for concurrent use.
type ScoringService struct {
	scorer   *AspectScorer
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewScoringService(sc *AspectScorer, c domain.Cache, ttl time.Duration) *ScoringService {
	return &ScoringService{scorer: sc, cache: c, cacheTTL: ttl}
}

func (s *ScoringService) Analyze(ctx context.Context, content string) (domain.CategoryScores, error) {
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	key := ScoreCacheKey(content)
	if s.cache != nil {
		var cached domain.CategoryScores
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	scores, err := s.scorer.Score(ctx, content)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, scores, int(s.cacheTTL.Seconds()))
	}
	return scores, nil
}

// ScoreCacheKey keys score sets by content hash; the offline batch scorer
// writes the same keys to pre-warm the synchronous path.
func ScoreCacheKey(content string) string {
	sum := sha1.Sum([]byte(content))
	return "scores:" + hex.EncodeToString(sum[:])
}
