package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// Cache keys of the public report aggregates. The report pages read these
// keys only; a miss renders as "data not yet available".
const (
	CacheKeyTemporalDistribution = "reports:public:temporal_distribution"
	CacheKeyPartyBreakdown       = "reports:public:party_breakdown"
	CacheKeyViewsBars            = "reports:public:views_bars"
	CacheKeyLikesBars            = "reports:public:likes_bars"
)

// topAccounts bounds the engagement bar charts.
const topAccounts = 25

// topHashtags bounds the hashtag breakdown.
const topHashtags = 30

// IReportUseCase computes and caches the public aggregates.
type IReportUseCase interface {
	RefreshPublicAggregates(ctx context.Context) error
	TemporalDistribution(ctx context.Context) ([]model.TemporalCount, bool, error)
	PartyBreakdown(ctx context.Context) ([]model.HashtagCount, bool, error)
	ViewsBars(ctx context.Context) ([]model.AccountStat, bool, error)
	LikesBars(ctx context.Context) ([]model.AccountStat, bool, error)
}

// ReportUseCase derives the public plot data from the scraped corpus and
// stores it under stable cache keys with a TTL, so the report pages never
// query the backlog tables directly.
type ReportUseCase struct {
	videos repository.IVideoStore
	cache  repository.IAggregateCache
	ttl    time.Duration
}

func NewReportUseCase(videos repository.IVideoStore, cache repository.IAggregateCache, ttl time.Duration) *ReportUseCase {
	return &ReportUseCase{videos: videos, cache: cache, ttl: ttl}
}

func (u *ReportUseCase) RefreshPublicAggregates(ctx context.Context) error {
	log := logger.GetLogger()

	temporal, err := u.videos.TemporalCounts(ctx)
	if err != nil {
		return fmt.Errorf("temporal counts: %w", err)
	}
	if err := u.cache.Set(ctx, CacheKeyTemporalDistribution, temporal, u.ttl); err != nil {
		return fmt.Errorf("cache temporal distribution: %w", err)
	}

	parties, err := u.videos.HashtagCounts(ctx, topHashtags)
	if err != nil {
		return fmt.Errorf("hashtag counts: %w", err)
	}
	if err := u.cache.Set(ctx, CacheKeyPartyBreakdown, parties, u.ttl); err != nil {
		return fmt.Errorf("cache party breakdown: %w", err)
	}

	byViews, err := u.videos.AccountStats(ctx, topAccounts)
	if err != nil {
		return fmt.Errorf("account stats: %w", err)
	}
	if err := u.cache.Set(ctx, CacheKeyViewsBars, byViews, u.ttl); err != nil {
		return fmt.Errorf("cache views bars: %w", err)
	}

	byLikes, err := u.videos.AccountStatsByLikes(ctx, topAccounts)
	if err != nil {
		return fmt.Errorf("account stats by likes: %w", err)
	}
	if err := u.cache.Set(ctx, CacheKeyLikesBars, byLikes, u.ttl); err != nil {
		return fmt.Errorf("cache likes bars: %w", err)
	}

	log.WithField("ttl", u.ttl.String()).Info("Public aggregates refreshed")
	return nil
}

func (u *ReportUseCase) TemporalDistribution(ctx context.Context) ([]model.TemporalCount, bool, error) {
	var counts []model.TemporalCount
	ok, err := u.cache.Get(ctx, CacheKeyTemporalDistribution, &counts)
	return counts, ok, err
}

func (u *ReportUseCase) PartyBreakdown(ctx context.Context) ([]model.HashtagCount, bool, error) {
	var counts []model.HashtagCount
	ok, err := u.cache.Get(ctx, CacheKeyPartyBreakdown, &counts)
	return counts, ok, err
}

func (u *ReportUseCase) ViewsBars(ctx context.Context) ([]model.AccountStat, bool, error) {
	var stats []model.AccountStat
	ok, err := u.cache.Get(ctx, CacheKeyViewsBars, &stats)
	return stats, ok, err
}

func (u *ReportUseCase) LikesBars(ctx context.Context) ([]model.AccountStat, bool, error) {
	var stats []model.AccountStat
	ok, err := u.cache.Get(ctx, CacheKeyLikesBars, &stats)
	return stats, ok, err
}
