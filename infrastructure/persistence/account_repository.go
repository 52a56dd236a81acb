package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"

	"gorm.io/gorm"
)

// AccountRepository implements repository.IAccountStore on postgres.
type AccountRepository struct {
	db *gorm.DB
}

var _ repository.IAccountStore = (*AccountRepository)(nil)

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) SaveScraped(ctx context.Context, user *model.TikTokUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := getOrCreateUser(tx, user.AuthorID)
		if err != nil {
			return err
		}
		// The first successful scrape is authoritative; a later pass never
		// touches an enriched profile.
		if existing.ScrapeSuccess {
			logger.GetLogger().WithField("author_id", user.AuthorID).
				Info("Account already scraped successfully, skipping")
			return nil
		}

		now := time.Now().UTC()
		user.ID = existing.ID
		user.DateAdded = existing.DateAdded
		user.ScrapeDate = &now
		user.ScrapeSuccess = true
		user.ScrapeStatus = nil
		if err := tx.Save(user).Error; err != nil {
			return fmt.Errorf("save user %d: %w", user.AuthorID, err)
		}
		return nil
	})
}

func (r *AccountRepository) MarkFailure(ctx context.Context, authorID int64, status string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&model.TikTokUser{}).
		Where("author_id = ? AND scrape_success = ?", authorID, false).
		Updates(map[string]any{
			"scrape_success": false,
			"scrape_status":  status,
			"scrape_date":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("mark failure for user %d: %w", authorID, err)
	}
	return nil
}

func (r *AccountRepository) NextUnscraped(ctx context.Context, limit int) ([]model.TikTokUser, error) {
	var users []model.TikTokUser
	// Stub rows carry a placeholder username and cannot be looked up against
	// the API until a video scrape reveals the real handle.
	err := r.db.WithContext(ctx).
		Where("scrape_date IS NULL AND username <> '' AND username <> ?", model.StubUsername).
		Order("date_added DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("unscraped users: %w", err)
	}
	return users, nil
}

func (r *AccountRepository) Stats(ctx context.Context) (*model.ScrapeStats, error) {
	var stats model.ScrapeStats
	err := r.db.WithContext(ctx).
		Model(&model.TikTokUser{}).
		Select(
			"COUNT(*) AS total",
			"COUNT(scrape_date) AS attempted",
			"COUNT(*) FILTER (WHERE scrape_success) AS success",
		).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &stats, nil
}
