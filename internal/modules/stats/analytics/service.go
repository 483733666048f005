package analytics

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lensfeed/core/internal/models"
	"github.com/lensfeed/core/internal/pkg/redis"
)

const (
	cacheKey = "lens:analytics:summary"
	cacheTTL = 60 * time.Second

	histogramBuckets = 10
	topKeywordCount  = 15
)

// Summary is the moderation analytics snapshot. Every number is derived
// from the comments table at read time; nothing here is a stored counter.
type Summary struct {
	TotalComments  int64          `json:"total_comments"`
	SpamComments   int64          `json:"spam_comments"`
	LegitComments  int64          `json:"legit_comments"`
	HiddenComments int64          `json:"hidden_comments"`
	SpamPercentage float64        `json:"spam_percentage"`
	Histogram      []Bucket       `json:"probability_histogram"`
	TopKeywords    []KeywordCount `json:"top_spam_keywords"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// Bucket is one bin of the spam-probability histogram.
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int64   `json:"count"`
}

// KeywordCount is one entry of the spam keyword leaderboard.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// Service computes the analytics summary, caching it briefly in redis so a
// dashboard polling the endpoint does not hammer the database.
type Service struct {
	db     *gorm.DB
	cache  *redis.Client
	logger *zap.Logger
}

func NewService(db *gorm.DB, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{db: db, cache: cache, logger: logger}
}

// Summary returns the analytics snapshot, served from cache when fresh.
// Cache failures degrade to a direct computation, never to an error.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL); err != nil {
				s.logger.Warn("analytics cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}

// Refresh recomputes the summary and replaces the cached copy. Used by the
// background job so dashboard reads stay warm.
func (s *Service) Refresh(ctx context.Context) error {
	summary, err := s.compute(ctx)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cacheKey, raw, cacheTTL)
}

// Invalidate drops the cached summary.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}

type commentRow struct {
	State           models.CommentState
	SpamProbability float64
	NormalizedText  string
}

func (s *Service) compute(ctx context.Context) (*Summary, error) {
	var rows []commentRow
	err := s.db.WithContext(ctx).
		Model(&models.CommentModel{}).
		Select("state", "spam_probability", "normalized_text").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Histogram:   emptyHistogram(),
		TopKeywords: []KeywordCount{},
		GeneratedAt: time.Now().UTC(),
	}

	var spamTexts []string
	for _, row := range rows {
		summary.TotalComments++
		addToHistogram(summary.Histogram, row.SpamProbability)

		if row.State.Hidden() {
			summary.HiddenComments++
		}
		if row.State == models.CommentHiddenAuto {
			summary.SpamComments++
			spamTexts = append(spamTexts, row.NormalizedText)
		} else {
			summary.LegitComments++
		}
	}

	if summary.TotalComments > 0 {
		pct := float64(summary.SpamComments) / float64(summary.TotalComments) * 100
		summary.SpamPercentage = math.Round(pct*100) / 100
	}
	summary.TopKeywords = topKeywords(spamTexts, topKeywordCount)
	return summary, nil
}

func emptyHistogram() []Bucket {
	buckets := make([]Bucket, histogramBuckets)
	for i := range buckets {
		buckets[i].Low = float64(i) / histogramBuckets
		buckets[i].High = float64(i+1) / histogramBuckets
	}
	return buckets
}

// addToHistogram bins a probability into [low, high) buckets; 1.0 lands in
// the last bucket.
func addToHistogram(buckets []Bucket, probability float64) {
	idx := int(probability * histogramBuckets)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(buckets) {
		idx = len(buckets) - 1
	}
	buckets[idx].Count++
}

// topKeywords tallies tokens across the normalized texts of spam comments
// and returns the n most frequent, ties broken alphabetically.
func topKeywords(texts []string, n int) []KeywordCount {
	tally := make(map[string]int64)
	for _, text := range texts {
		for _, token := range strings.Fields(text) {
			tally[token]++
		}
	}

	keywords := make([]KeywordCount, 0, len(tally))
	for token, count := range tally {
		keywords = append(keywords, KeywordCount{Keyword: token, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}
