package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/usecase"
)

func TestRefreshPublicAggregates(t *testing.T) {
	videos := new(MockVideoStore)
	cache := new(MockAggregateCache)
	reports := usecase.NewReportUseCase(videos, cache, 24*time.Hour)

	temporal := []model.TemporalCount{{Day: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Count: 12}}
	hashtags := []model.HashtagCount{{Name: "bundestagswahl", Count: 7}}
	byViews := []model.AccountStat{{Username: "partei_a", VideoCount: 3, ViewSum: 9000, LikeSum: 410}}
	byLikes := []model.AccountStat{{Username: "partei_b", VideoCount: 2, ViewSum: 1200, LikeSum: 950}}

	videos.On("TemporalCounts", mock.Anything).Return(temporal, nil)
	videos.On("HashtagCounts", mock.Anything, mock.Anything).Return(hashtags, nil)
	videos.On("AccountStats", mock.Anything, mock.Anything).Return(byViews, nil)
	videos.On("AccountStatsByLikes", mock.Anything, mock.Anything).Return(byLikes, nil)

	cache.On("Set", mock.Anything, usecase.CacheKeyTemporalDistribution, mock.Anything, 24*time.Hour).Return(nil).Once()
	cache.On("Set", mock.Anything, usecase.CacheKeyPartyBreakdown, mock.Anything, 24*time.Hour).Return(nil).Once()
	cache.On("Set", mock.Anything, usecase.CacheKeyViewsBars, byViews, 24*time.Hour).Return(nil).Once()
	cache.On("Set", mock.Anything, usecase.CacheKeyLikesBars, byLikes, 24*time.Hour).Return(nil).Once()

	err := reports.RefreshPublicAggregates(context.Background())

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestTemporalDistribution_CacheMiss(t *testing.T) {
	videos := new(MockVideoStore)
	cache := new(MockAggregateCache)
	reports := usecase.NewReportUseCase(videos, cache, 24*time.Hour)

	cache.On("Get", mock.Anything, usecase.CacheKeyTemporalDistribution, mock.Anything).Return(false, nil)

	_, ok, err := reports.TemporalDistribution(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	videos.AssertNotCalled(t, "TemporalCounts", mock.Anything)
}
