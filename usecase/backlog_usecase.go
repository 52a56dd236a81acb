package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Nico-AP/datadonation-wi/domain/model"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/filecsv"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// exportBatchSize is how many rows one export read pulls at a time.
const exportBatchSize = 1000

// IBacklogUseCase covers backlog maintenance: bulk imports from donation
// dumps, priority promotion, progress reporting and dataset export.
type IBacklogUseCase interface {
	EnqueueFromFile(ctx context.Context, path string) (int64, error)
	PromoteFromFile(ctx context.Context, path string, cutoff *time.Time) (int64, error)
	Status(ctx context.Context) (*model.ScrapeStats, *model.ScrapeStats, error)
	ExportCSV(ctx context.Context, path string) (int64, error)
}

type BacklogUseCase struct {
	videos   repository.IVideoStore
	accounts repository.IAccountStore
}

func NewBacklogUseCase(videos repository.IVideoStore, accounts repository.IAccountStore) *BacklogUseCase {
	return &BacklogUseCase{videos: videos, accounts: accounts}
}

// EnqueueFromFile extracts every identifier from a donation dump and inserts
// the ones not already known. Returns the number of new rows.
func (u *BacklogUseCase) EnqueueFromFile(ctx context.Context, path string) (int64, error) {
	records, err := LoadDonationRecords(path)
	if err != nil {
		return 0, err
	}
	ids := ExtractVideoIDs(records, nil)
	inserted, err := u.videos.BulkEnqueue(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("enqueue donation ids: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"file":      path,
		"extracted": len(ids),
		"inserted":  inserted,
	}).Info("Donation file enqueued")
	return inserted, nil
}

// PromoteFromFile raises the scrape priority of identifiers from a donation
// dump, restricted to records watched on or after cutoff when one is given.
// Records with no parseable watch date are excluded whenever a cutoff
// applies. Identifiers not yet in the backlog are inserted first so the
// promotion covers them too.
func (u *BacklogUseCase) PromoteFromFile(ctx context.Context, path string, cutoff *time.Time) (int64, error) {
	records, err := LoadDonationRecords(path)
	if err != nil {
		return 0, err
	}
	ids := ExtractVideoIDs(records, cutoff)
	if _, err := u.videos.BulkEnqueue(ctx, ids); err != nil {
		return 0, fmt.Errorf("enqueue before promote: %w", err)
	}
	promoted, err := u.videos.PromotePriority(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("promote donation ids: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"file":      path,
		"extracted": len(ids),
		"promoted":  promoted,
	}).Info("Donation file promoted")
	return promoted, nil
}

// Status returns backlog progress for videos and accounts.
func (u *BacklogUseCase) Status(ctx context.Context) (*model.ScrapeStats, *model.ScrapeStats, error) {
	videoStats, err := u.videos.Stats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("video stats: %w", err)
	}
	accountStats, err := u.accounts.Stats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("account stats: %w", err)
	}
	return videoStats, accountStats, nil
}

// ExportCSV streams every successfully scraped video into a CSV file and
// returns the number of rows written.
func (u *BacklogUseCase) ExportCSV(ctx context.Context, path string) (int64, error) {
	writer, err := filecsv.NewVideoWriter(path)
	if err != nil {
		return 0, err
	}

	var written int64
	err = u.videos.ForEachScraped(ctx, exportBatchSize, func(videos []model.TikTokVideo) error {
		if err := writer.WriteBatch(videos); err != nil {
			return err
		}
		written += int64(len(videos))
		return nil
	})
	if err != nil {
		_ = writer.Close()
		return written, err
	}
	if err := writer.Close(); err != nil {
		return written, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"file": path,
		"rows": written,
	}).Info("Dataset exported")
	return written, nil
}
