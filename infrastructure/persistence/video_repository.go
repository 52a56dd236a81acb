package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoRepository implements repository.IVideoStore on postgres. Conflict
// resolution lives in the database (ON CONFLICT on the video_id uniqueness
// constraint), not in application-level check-then-insert sequences.
type VideoRepository struct {
	db        *gorm.DB
	batchSize int
}

var _ repository.IVideoStore = (*VideoRepository)(nil)

func NewVideoRepository(db *gorm.DB, batchSize int) *VideoRepository {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &VideoRepository{db: db, batchSize: batchSize}
}

func (r *VideoRepository) BulkEnqueue(ctx context.Context, videoIDs []int64) (int64, error) {
	if len(videoIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.TikTokVideo, 0, len(videoIDs))
	for _, id := range videoIDs {
		rows = append(rows, model.TikTokVideo{VideoID: id})
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, r.batchSize)
	if tx.Error != nil {
		return 0, fmt.Errorf("bulk enqueue: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

func (r *VideoRepository) PromotePriority(ctx context.Context, videoIDs []int64) (int64, error) {
	var promoted int64
	for start := 0; start < len(videoIDs); start += r.batchSize {
		end := start + r.batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		tx := r.db.WithContext(ctx).
			Model(&model.TikTokVideo{}).
			Where("video_id IN ? AND scrape_priority = 0 AND scrape_date IS NULL", videoIDs[start:end]).
			Update("scrape_priority", 1)
		if tx.Error != nil {
			return promoted, fmt.Errorf("promote priority: %w", tx.Error)
		}
		promoted += tx.RowsAffected
	}
	return promoted, nil
}

func (r *VideoRepository) NextBatch(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.TikTokVideo{}).
		Where("scrape_date IS NULL").
		Order("scrape_priority DESC").
		Order("date_added DESC").
		Order("id DESC").
		Limit(limit).
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("next batch: %w", err)
	}
	return ids, nil
}

func (r *VideoRepository) IsScraped(ctx context.Context, videoID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TikTokVideo{}).
		Where("video_id = ? AND scrape_date IS NOT NULL", videoID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("scraped check: %w", err)
	}
	return count > 0, nil
}

func (r *VideoRepository) GetByVideoID(ctx context.Context, videoID int64) (*model.TikTokVideo, error) {
	var video model.TikTokVideo
	err := r.db.WithContext(ctx).
		Preload("Hashtags").
		Preload("Mentions").
		Preload("Author").
		Where("video_id = ?", videoID).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) SaveScraped(ctx context.Context, video *model.TikTokVideo, hashtags []string, mentionAuthorIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get-or-create the backlog row, then bail out if an earlier pass
		// already enriched it.
		existing, err := getOrCreateVideo(tx, video.VideoID)
		if err != nil {
			return err
		}
		if existing.ScrapeSuccess {
			logger.GetLogger().WithField("video_id", video.VideoID).
				Info("Video already scraped successfully, skipping")
			return nil
		}

		now := time.Now().UTC()
		video.ID = existing.ID
		video.DateAdded = existing.DateAdded
		video.ScrapeDate = &now
		video.ScrapeSuccess = true
		video.ScrapeStatus = nil
		if err := tx.Omit("Hashtags", "Mentions", "Author").Save(video).Error; err != nil {
			return fmt.Errorf("save video %d: %w", video.VideoID, err)
		}

		tags, err := resolveHashtags(tx, hashtags)
		if err != nil {
			return err
		}
		if err := tx.Model(video).Association("Hashtags").Replace(tags); err != nil {
			return fmt.Errorf("replace hashtags for %d: %w", video.VideoID, err)
		}

		mentions, err := resolveMentionStubs(tx, mentionAuthorIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(video).Association("Mentions").Replace(mentions); err != nil {
			return fmt.Errorf("replace mentions for %d: %w", video.VideoID, err)
		}
		return nil
	})
}

func (r *VideoRepository) MarkFailure(ctx context.Context, videoID int64, status string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&model.TikTokVideo{}).
		Where("video_id = ? AND scrape_success = ?", videoID, false).
		Updates(map[string]any{
			"scrape_success": false,
			"scrape_status":  status,
			"scrape_date":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("mark failure for %d: %w", videoID, err)
	}
	return nil
}

func (r *VideoRepository) Stats(ctx context.Context) (*model.ScrapeStats, error) {
	var stats model.ScrapeStats
	err := r.db.WithContext(ctx).
		Model(&model.TikTokVideo{}).
		Select(
			"COUNT(*) AS total",
			"COUNT(scrape_date) AS attempted",
			"COUNT(*) FILTER (WHERE scrape_success) AS success",
		).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("video stats: %w", err)
	}
	return &stats, nil
}

func (r *VideoRepository) TemporalCounts(ctx context.Context) ([]model.TemporalCount, error) {
	var counts []model.TemporalCount
	err := r.db.WithContext(ctx).
		Model(&model.TikTokVideo{}).
		Select("date_trunc('day', create_time) AS day", "COUNT(*) AS count").
		Where("scrape_success = ? AND create_time IS NOT NULL", true).
		Group("date_trunc('day', create_time)").
		Order("day").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("temporal counts: %w", err)
	}
	return counts, nil
}

func (r *VideoRepository) HashtagCounts(ctx context.Context, limit int) ([]model.HashtagCount, error) {
	var counts []model.HashtagCount
	err := r.db.WithContext(ctx).
		Table("scraper_hashtag AS h").
		Select("h.name AS name", "COUNT(vh.scraper_tiktokvideo_b_id) AS count").
		Joins("JOIN scraper_tiktokvideo_b_hashtags vh ON vh.hashtag_id = h.id").
		Joins("JOIN scraper_tiktokvideo_b v ON v.id = vh.scraper_tiktokvideo_b_id AND v.scrape_success").
		Group("h.name").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("hashtag counts: %w", err)
	}
	return counts, nil
}

func (r *VideoRepository) AccountStats(ctx context.Context, limit int) ([]model.AccountStat, error) {
	return r.accountStats(ctx, limit, "view_sum DESC")
}

func (r *VideoRepository) AccountStatsByLikes(ctx context.Context, limit int) ([]model.AccountStat, error) {
	return r.accountStats(ctx, limit, "like_sum DESC")
}

func (r *VideoRepository) accountStats(ctx context.Context, limit int, order string) ([]model.AccountStat, error) {
	var stats []model.AccountStat
	err := r.db.WithContext(ctx).
		Table("scraper_tiktokuser_b AS u").
		Select(
			"u.username AS username",
			"COUNT(v.id) AS video_count",
			"COALESCE(SUM(v.view_count), 0) AS view_sum",
			"COALESCE(SUM(v.like_count), 0) AS like_sum",
		).
		Joins("JOIN scraper_tiktokvideo_b v ON v.author_id = u.author_id AND v.scrape_success").
		Group("u.username").
		Order(order).
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}
	return stats, nil
}

func (r *VideoRepository) ForEachScraped(ctx context.Context, batchSize int, fn func([]model.TikTokVideo) error) error {
	if batchSize <= 0 {
		batchSize = 1000
	}
	var batch []model.TikTokVideo
	result := r.db.WithContext(ctx).
		Preload("Hashtags").
		Preload("Author").
		Where("scrape_success = ?", true).
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	if result.Error != nil {
		return fmt.Errorf("export scan: %w", result.Error)
	}
	return nil
}

// getOrCreateVideo resolves a backlog row by identifier, inserting an
// identifier-only row when absent. The insert races safely: ON CONFLICT DO
// NOTHING and a follow-up select.
func getOrCreateVideo(tx *gorm.DB, videoID int64) (*model.TikTokVideo, error) {
	stub := model.TikTokVideo{VideoID: videoID}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}},
		DoNothing: true,
	}).Create(&stub).Error
	if err != nil {
		return nil, fmt.Errorf("get-or-create video %d: %w", videoID, err)
	}
	var row model.TikTokVideo
	if err := tx.Where("video_id = ?", videoID).First(&row).Error; err != nil {
		return nil, fmt.Errorf("load video %d: %w", videoID, err)
	}
	return &row, nil
}

func resolveHashtags(tx *gorm.DB, names []string) ([]model.Hashtag, error) {
	tags := make([]model.Hashtag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		stub := model.Hashtag{Name: name}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&stub).Error
		if err != nil {
			return nil, fmt.Errorf("get-or-create hashtag %q: %w", name, err)
		}
		var tag model.Hashtag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			return nil, fmt.Errorf("load hashtag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func resolveMentionStubs(tx *gorm.DB, authorIDs []int64) ([]model.TikTokUser, error) {
	users := make([]model.TikTokUser, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		user, err := getOrCreateUser(tx, authorID)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// getOrCreateUser is shared by the video and account repositories.
func getOrCreateUser(tx *gorm.DB, authorID int64) (*model.TikTokUser, error) {
	stub := model.TikTokUser{AuthorID: authorID, Username: model.StubUsername}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "author_id"}},
		DoNothing: true,
	}).Create(&stub).Error
	if err != nil {
		return nil, fmt.Errorf("get-or-create user %d: %w", authorID, err)
	}
	var row model.TikTokUser
	if err := tx.Where("author_id = ?", authorID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d vanished after upsert: %w", authorID, err)
		}
		return nil, fmt.Errorf("load user %d: %w", authorID, err)
	}
	return &row, nil
}
