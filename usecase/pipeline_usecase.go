package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/clients/tiktok"
	"github.com/Nico-AP/datadonation-wi/infrastructure/configuration"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
)

// ErrSessionHalted is returned when the consecutive transient error counter
// reaches the kill-switch threshold. The run stops; everything already
// persisted stays, and the next run picks up the remaining backlog.
var ErrSessionHalted = errors.New("session halted: too many consecutive transient errors")

// searchLag is how far behind today the full run searches. Engagement
// counters on very fresh videos are still moving, so the daily search targets
// a settled day.
const searchLag = 4 * 24 * time.Hour

// IPipelineUseCase drives the acquisition session end to end.
type IPipelineUseCase interface {
	RunFull(ctx context.Context) error
	RunSingleDay(ctx context.Context, day time.Time) error
	RunAccounts(ctx context.Context) error
	RunTest(ctx context.Context) error
}

// PipelineUseCase sequences the phases of a scraping session: authenticate,
// search, drain the backlog, refresh the public aggregates. Interruption at
// any point is safe because every unit outcome is persisted before the next
// unit starts.
type PipelineUseCase struct {
	api       repository.IResearchAPI
	videos    repository.IVideoStore
	accounts  repository.IAccountStore
	reconcile IReconcileUseCase
	reports   IReportUseCase
	tiktokCfg configuration.TikTok
	cfg       configuration.Scraper
}

func NewPipelineUseCase(
	api repository.IResearchAPI,
	videos repository.IVideoStore,
	accounts repository.IAccountStore,
	reconcile IReconcileUseCase,
	reports IReportUseCase,
	tiktokCfg configuration.TikTok,
	cfg configuration.Scraper,
) *PipelineUseCase {
	return &PipelineUseCase{
		api:       api,
		videos:    videos,
		accounts:  accounts,
		reconcile: reconcile,
		reports:   reports,
		tiktokCfg: tiktokCfg,
		cfg:       cfg,
	}
}

// session tracks consecutive transient errors across all fetch calls of one
// run, search and drain phases included.
type session struct {
	mu          sync.Mutex
	consecutive int
	threshold   int
}

// transient records one more transient error and reports whether the
// kill-switch threshold has been reached.
func (s *session) transient() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutive++
	return s.consecutive >= s.threshold
}

func (s *session) reset() {
	s.mu.Lock()
	s.consecutive = 0
	s.mu.Unlock()
}

func (u *PipelineUseCase) RunFull(ctx context.Context) error {
	log := logger.GetLogger()
	if err := u.api.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	sess := &session{threshold: u.cfg.KillSwitchThreshold}
	day := time.Now().UTC().Add(-searchLag)
	if err := u.searchRange(ctx, sess, day, day); err != nil {
		return err
	}
	if err := u.drainVideos(ctx, sess, 0); err != nil {
		return err
	}
	if err := u.reports.RefreshPublicAggregates(ctx); err != nil {
		log.WithField("error", err).Error("Failed to refresh public aggregates")
		return err
	}
	log.Info("Full run finished")
	return nil
}

func (u *PipelineUseCase) RunSingleDay(ctx context.Context, day time.Time) error {
	if day.IsZero() {
		day = time.Now().UTC().Add(-searchLag)
	}
	if err := u.api.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	sess := &session{threshold: u.cfg.KillSwitchThreshold}
	if err := u.searchRange(ctx, sess, day, day); err != nil {
		return err
	}
	if err := u.drainVideos(ctx, sess, 0); err != nil {
		return err
	}
	return u.reports.RefreshPublicAggregates(ctx)
}

func (u *PipelineUseCase) RunTest(ctx context.Context) error {
	if err := u.api.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	logger.GetLogger().WithField("limit", u.cfg.TestLimit).Info("Test run: limited drain, no aggregate refresh")
	sess := &session{threshold: u.cfg.KillSwitchThreshold}
	return u.drainVideos(ctx, sess, u.cfg.TestLimit)
}

// searchRange pages through the standing query over [start, end], enqueueing
// every returned identifier. Ranges wider than the API window are split; the
// cursor and search id are carried across pages within one sub-range.
func (u *PipelineUseCase) searchRange(ctx context.Context, sess *session, start, end time.Time) error {
	log := logger.GetLogger()
	ranges, err := tiktok.SplitDateRange(start.Format(tiktok.DateLayout), end.Format(tiktok.DateLayout))
	if err != nil {
		return err
	}

	var enqueued int64
	for _, r := range ranges {
		req := &dto.VideoQueryRequest{
			Query:     u.standingQuery(),
			MaxCount:  u.cfg.MaxCount,
			IsRandom:  false,
			StartDate: r.Start,
			EndDate:   r.End,
		}
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := u.api.QueryVideos(ctx, req)
			if err != nil {
				if dto.IsTransient(err) {
					log.WithField("error", err).Warn("Transient search error, cooling down")
					if sess.transient() {
						return ErrSessionHalted
					}
					if err := u.cooldown(ctx); err != nil {
						return err
					}
					continue
				}
				return fmt.Errorf("search %s..%s: %w", r.Start, r.End, err)
			}
			sess.reset()

			ids := make([]int64, 0, len(data.Videos))
			for _, v := range data.Videos {
				ids = append(ids, v.ID)
			}
			n, err := u.videos.BulkEnqueue(ctx, ids)
			if err != nil {
				return fmt.Errorf("enqueue search results: %w", err)
			}
			enqueued += n

			if !data.HasMore {
				break
			}
			req.Cursor = data.Cursor
			req.SearchID = data.SearchID
		}
	}
	log.WithFields(map[string]interface{}{
		"start":    start.Format(tiktok.DateLayout),
		"end":      end.Format(tiktok.DateLayout),
		"enqueued": enqueued,
	}).Info("Search phase finished")
	return nil
}

// standingQuery builds the boolean query for the monitored accounts and
// hashtags, restricted to the configured region codes.
func (u *PipelineUseCase) standingQuery() dto.Query {
	q := dto.Query{
		And: []dto.QueryCondition{{
			Operation:   "IN",
			FieldName:   "region_code",
			FieldValues: u.tiktokCfg.RegionCodes,
		}},
	}
	if len(u.tiktokCfg.Usernames) > 0 {
		q.Or = append(q.Or, dto.QueryCondition{
			Operation:   "IN",
			FieldName:   "username",
			FieldValues: u.tiktokCfg.Usernames,
		})
	}
	if len(u.tiktokCfg.Hashtags) > 0 {
		q.Or = append(q.Or, dto.QueryCondition{
			Operation:   "IN",
			FieldName:   "hashtag_name",
			FieldValues: u.tiktokCfg.Hashtags,
		})
	}
	return q
}

// drainVideos works through the backlog in priority order until it is empty
// or limit units have been attempted (limit <= 0 means no cap). Each unit's
// outcome is persisted before the next unit starts.
func (u *PipelineUseCase) drainVideos(ctx context.Context, sess *session, limit int) error {
	log := logger.GetLogger()
	var processed, succeeded, failed, skipped int

	for {
		batch := u.cfg.BatchSize
		if limit > 0 && limit-processed < batch {
			batch = limit - processed
		}
		if batch <= 0 {
			break
		}
		ids, err := u.videos.NextBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("next batch: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.cfg.Workers)
		var mu sync.Mutex
		for _, id := range ids {
			id := id
			g.Go(func() error {
				outcome, err := u.scrapeVideo(gctx, id, sess)
				if err != nil {
					return err
				}
				mu.Lock()
				switch outcome {
				case outcomeSuccess:
					succeeded++
				case outcomeFailed:
					failed++
				case outcomeSkipped:
					skipped++
				}
				processed++
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		log.WithFields(map[string]interface{}{
			"processed": processed,
			"succeeded": succeeded,
			"failed":    failed,
			"skipped":   skipped,
		}).Info("Backlog batch finished")
	}

	log.WithFields(map[string]interface{}{
		"processed": processed,
		"succeeded": succeeded,
		"failed":    failed,
		"skipped":   skipped,
	}).Info("Backlog drained")
	return nil
}

type unitOutcome int

const (
	outcomeSuccess unitOutcome = iota
	outcomeFailed
	outcomeSkipped
	outcomeDeferred
)

// scrapeVideo fetches and reconciles one backlog unit. A returned error is
// batch-fatal; per-unit failures are recorded and reported in the outcome.
func (u *PipelineUseCase) scrapeVideo(ctx context.Context, videoID int64, sess *session) (unitOutcome, error) {
	log := logger.GetLogger().WithField("video_id", videoID)

	if err := ctx.Err(); err != nil {
		return outcomeDeferred, err
	}
	scraped, err := u.videos.IsScraped(ctx, videoID)
	if err != nil {
		return outcomeSkipped, err
	}
	if scraped {
		return outcomeSkipped, nil
	}

	detail, err := u.api.FetchVideoDetail(ctx, videoID)
	if err != nil {
		if dto.IsTransient(err) {
			log.WithField("error", err).Warn("Transient fetch error, unit stays in backlog")
			if sess.transient() {
				return outcomeDeferred, ErrSessionHalted
			}
			if err := u.cooldown(ctx); err != nil {
				return outcomeDeferred, err
			}
			return outcomeDeferred, nil
		}
		log.WithField("error", err).Error("Fetch failed")
		if markErr := u.videos.MarkFailure(ctx, videoID, err.Error()); markErr != nil {
			return outcomeFailed, markErr
		}
		return outcomeFailed, nil
	}
	sess.reset()

	if err := u.reconcile.ReconcileVideo(ctx, videoID, detail); err != nil {
		var missing *MissingSectionError
		if errors.As(err, &missing) {
			log.WithField("sections", missing.Sections).Warn("Incomplete payload, unit marked failed")
			return outcomeFailed, nil
		}
		return outcomeFailed, err
	}
	return outcomeSuccess, nil
}

// RunAccounts enriches accounts that were created as mention or author stubs
// (or imported with a username) but never scraped themselves.
func (u *PipelineUseCase) RunAccounts(ctx context.Context) error {
	log := logger.GetLogger()
	if err := u.api.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	sess := &session{threshold: u.cfg.KillSwitchThreshold}
	var processed, succeeded, failed int
	for {
		users, err := u.accounts.NextUnscraped(ctx, u.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("next unscraped accounts: %w", err)
		}
		if len(users) == 0 {
			break
		}
		for _, user := range users {
			if err := ctx.Err(); err != nil {
				return err
			}
			ulog := log.WithField("username", user.Username)

			meta, err := u.api.FetchUserDetail(ctx, user.Username)
			if err != nil {
				if dto.IsTransient(err) {
					ulog.WithField("error", err).Warn("Transient profile fetch error, cooling down")
					if sess.transient() {
						return ErrSessionHalted
					}
					if err := u.cooldown(ctx); err != nil {
						return err
					}
					continue
				}
				ulog.WithField("error", err).Error("Profile fetch failed")
				if markErr := u.accounts.MarkFailure(ctx, user.AuthorID, err.Error()); markErr != nil {
					return markErr
				}
				failed++
				processed++
				continue
			}
			sess.reset()

			if meta != nil {
				meta.ID = user.AuthorID
			}
			saved, err := u.reconcile.ReconcileUser(ctx, user.AuthorID, meta)
			if err != nil {
				return err
			}
			if saved {
				succeeded++
			} else {
				failed++
			}
			processed++
		}
	}
	log.WithFields(map[string]interface{}{
		"processed": processed,
		"succeeded": succeeded,
		"failed":    failed,
	}).Info("Account pass finished")
	return nil
}

// cooldown sleeps the configured backoff, abandoning early on cancellation.
func (u *PipelineUseCase) cooldown(ctx context.Context) error {
	t := time.NewTimer(time.Duration(u.cfg.CooldownSeconds) * time.Second)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
