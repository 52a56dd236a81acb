package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/domain/model"
)

// Mock implementations
type MockVideoStore struct {
	mock.Mock
}

func (m *MockVideoStore) BulkEnqueue(ctx context.Context, videoIDs []int64) (int64, error) {
	args := m.Called(ctx, videoIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoStore) PromotePriority(ctx context.Context, videoIDs []int64) (int64, error) {
	args := m.Called(ctx, videoIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoStore) NextBatch(ctx context.Context, limit int) ([]int64, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockVideoStore) IsScraped(ctx context.Context, videoID int64) (bool, error) {
	args := m.Called(ctx, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoStore) GetByVideoID(ctx context.Context, videoID int64) (*model.TikTokVideo, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TikTokVideo), args.Error(1)
}

func (m *MockVideoStore) SaveScraped(ctx context.Context, video *model.TikTokVideo, hashtags []string, mentionAuthorIDs []int64) error {
	args := m.Called(ctx, video, hashtags, mentionAuthorIDs)
	return args.Error(0)
}

func (m *MockVideoStore) MarkFailure(ctx context.Context, videoID int64, status string) error {
	args := m.Called(ctx, videoID, status)
	return args.Error(0)
}

func (m *MockVideoStore) Stats(ctx context.Context) (*model.ScrapeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScrapeStats), args.Error(1)
}

func (m *MockVideoStore) TemporalCounts(ctx context.Context) ([]model.TemporalCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TemporalCount), args.Error(1)
}

func (m *MockVideoStore) HashtagCounts(ctx context.Context, limit int) ([]model.HashtagCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HashtagCount), args.Error(1)
}

func (m *MockVideoStore) AccountStats(ctx context.Context, limit int) ([]model.AccountStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccountStat), args.Error(1)
}

func (m *MockVideoStore) AccountStatsByLikes(ctx context.Context, limit int) ([]model.AccountStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccountStat), args.Error(1)
}

func (m *MockVideoStore) ForEachScraped(ctx context.Context, batchSize int, fn func([]model.TikTokVideo) error) error {
	args := m.Called(ctx, batchSize, fn)
	return args.Error(0)
}

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) SaveScraped(ctx context.Context, user *model.TikTokUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAccountStore) MarkFailure(ctx context.Context, authorID int64, status string) error {
	args := m.Called(ctx, authorID, status)
	return args.Error(0)
}

func (m *MockAccountStore) NextUnscraped(ctx context.Context, limit int) ([]model.TikTokUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TikTokUser), args.Error(1)
}

func (m *MockAccountStore) Stats(ctx context.Context) (*model.ScrapeStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScrapeStats), args.Error(1)
}

type MockResearchAPI struct {
	mock.Mock
}

func (m *MockResearchAPI) Authenticate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockResearchAPI) QueryVideos(ctx context.Context, req *dto.VideoQueryRequest) (*dto.VideoQueryData, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoQueryData), args.Error(1)
}

func (m *MockResearchAPI) FetchVideoDetail(ctx context.Context, videoID int64) (*dto.VideoDetail, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoDetail), args.Error(1)
}

func (m *MockResearchAPI) FetchUserDetail(ctx context.Context, username string) (*dto.AuthorMetadata, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthorMetadata), args.Error(1)
}

type MockAggregateCache struct {
	mock.Mock
}

func (m *MockAggregateCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockAggregateCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

type MockReconcileUseCase struct {
	mock.Mock
}

func (m *MockReconcileUseCase) ReconcileVideo(ctx context.Context, videoID int64, detail *dto.VideoDetail) error {
	args := m.Called(ctx, videoID, detail)
	return args.Error(0)
}

func (m *MockReconcileUseCase) ReconcileUser(ctx context.Context, authorID int64, meta *dto.AuthorMetadata) (bool, error) {
	args := m.Called(ctx, authorID, meta)
	return args.Bool(0), args.Error(1)
}

type MockReportUseCase struct {
	mock.Mock
}

func (m *MockReportUseCase) RefreshPublicAggregates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReportUseCase) TemporalDistribution(ctx context.Context) ([]model.TemporalCount, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.TemporalCount), args.Bool(1), args.Error(2)
}

func (m *MockReportUseCase) PartyBreakdown(ctx context.Context) ([]model.HashtagCount, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.HashtagCount), args.Bool(1), args.Error(2)
}

func (m *MockReportUseCase) ViewsBars(ctx context.Context) ([]model.AccountStat, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.AccountStat), args.Bool(1), args.Error(2)
}

func (m *MockReportUseCase) LikesBars(ctx context.Context) ([]model.AccountStat, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.AccountStat), args.Bool(1), args.Error(2)
}
