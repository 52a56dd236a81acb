package repository

import (
	"context"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
)

// IVideoStore is the durable backlog of known video identifiers plus the
// enriched metadata written by reconciliation. The database is the only
// mutual-exclusion boundary; all invariants are enforced transactionally.
type IVideoStore interface {
	// BulkEnqueue inserts identifier-only rows in batches, ignoring
	// identifiers that are already present. Returns the number of rows
	// actually inserted.
	BulkEnqueue(ctx context.Context, videoIDs []int64) (int64, error)

	// PromotePriority raises scrape_priority to 1 for the given unscraped
	// identifiers, but only where it still has its default value. Returns
	// the number of rows promoted.
	PromotePriority(ctx context.Context, videoIDs []int64) (int64, error)

	// NextBatch returns up to limit unscraped identifiers ordered by
	// scrape_priority descending, then most recently added first.
	NextBatch(ctx context.Context, limit int) ([]int64, error)

	// IsScraped reports whether an attempt has already been recorded for the
	// identifier. Used as a best-effort re-check immediately before a fetch.
	IsScraped(ctx context.Context, videoID int64) (bool, error)

	// GetByVideoID loads one video with its hashtag and mention sets.
	GetByVideoID(ctx context.Context, videoID int64) (*model.TikTokVideo, error)

	// SaveScraped writes the outcome of a successful reconciliation in one
	// transaction: all scalar fields, wholesale replacement of the hashtag
	// and mention sets, scrape_date stamped, scrape_success set. Rows that
	// already have scrape_success are left untouched.
	SaveScraped(ctx context.Context, video *model.TikTokVideo, hashtags []string, mentionAuthorIDs []int64) error

	// MarkFailure records a failed attempt: scrape_success=false, diagnostic
	// in scrape_status, scrape_date stamped so the row is not retried
	// automatically.
	MarkFailure(ctx context.Context, videoID int64, status string) error

	// Stats returns backlog progress counters.
	Stats(ctx context.Context) (*model.ScrapeStats, error)

	// TemporalCounts returns per-day counts of successfully scraped videos.
	TemporalCounts(ctx context.Context) ([]model.TemporalCount, error)

	// HashtagCounts returns per-hashtag video counts across scraped videos.
	HashtagCounts(ctx context.Context, limit int) ([]model.HashtagCount, error)

	// AccountStats returns per-author engagement aggregates ordered by total
	// views descending.
	AccountStats(ctx context.Context, limit int) ([]model.AccountStat, error)

	// AccountStatsByLikes returns the same aggregates ordered by total likes
	// descending, so the likes chart is not a copy of the views chart.
	AccountStatsByLikes(ctx context.Context, limit int) ([]model.AccountStat, error)

	// ForEachScraped streams successfully scraped videos in batches, for
	// dataset export.
	ForEachScraped(ctx context.Context, batchSize int, fn func([]model.TikTokVideo) error) error
}

// IAccountStore persists authors and mentioned accounts. Placeholder rows
// for mentioned accounts are created by the video store inside its
// reconciliation transaction, not through this interface.
type IAccountStore interface {
	// SaveScraped writes a scraped profile. Accounts that already carry
	// scrape_success keep their existing fields (first success wins).
	SaveScraped(ctx context.Context, user *model.TikTokUser) error

	// MarkFailure records a failed account scrape attempt.
	MarkFailure(ctx context.Context, authorID int64, status string) error

	// NextUnscraped returns up to limit accounts with no attempt yet.
	NextUnscraped(ctx context.Context, limit int) ([]model.TikTokUser, error)

	// Stats returns account scraping progress counters.
	Stats(ctx context.Context) (*model.ScrapeStats, error)
}

// IAggregateCache is the derived-data cache consumed by the public report
// pages. A miss means "data not yet available", never an error.
type IAggregateCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get unmarshals the cached value into dest and reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string, dest any) (bool, error)
}
