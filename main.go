package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nico-AP/datadonation-wi/infrastructure/cache"
	"github.com/Nico-AP/datadonation-wi/infrastructure/clients/tiktok"
	"github.com/Nico-AP/datadonation-wi/infrastructure/configuration"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
	"github.com/Nico-AP/datadonation-wi/infrastructure/persistence"
	httpHandler "github.com/Nico-AP/datadonation-wi/interfaces/http"
	"github.com/Nico-AP/datadonation-wi/server"
	"github.com/Nico-AP/datadonation-wi/usecase"
)

// capturePanics turns a panic inside fn into an error so the process still
// logs it and exits non-zero instead of swallowing it.
func capturePanics(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().WithField("error", r).Error("Application panic recovered")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func main() {
	mode := flag.String("mode", "full-run", "one of: full-run, single-day, accounts-only, test-limited, status, export-csv, enqueue, promote, serve")
	date := flag.String("date", "", "day to search in single-day mode (YYYYMMDD, defaults to four days ago)")
	file := flag.String("file", "", "donation dump for enqueue and promote modes")
	out := flag.String("out", "videos.csv", "output path for export-csv mode")
	cutoff := flag.String("cutoff", "", "only promote records watched on or after this day (YYYYMMDD)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		logger.GetLogger().Info("Interrupt received, finishing current unit")
		cancel()
	}()

	// Env files are non-destructive; OS env still has precedence.
	configuration.LoadEnvFromFile("config.env", ".env")

	err := capturePanics(func() error {
		return run(ctx, *mode, *date, *file, *out, *cutoff)
	})
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"mode":  *mode,
			"error": err,
		}).Error("Run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, mode, date, file, out, cutoff string) error {
	cfg := configuration.C

	db, err := persistence.NewPostgresDB(cfg.PsqlDSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := persistence.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	videos := persistence.NewVideoRepository(db, cfg.Scraper.EnqueueBatchSize)
	accounts := persistence.NewAccountRepository(db)
	aggregates := cache.NewAggregateCache(
		cfg.RedisClient.Host,
		cfg.RedisClient.Port,
		cfg.RedisClient.Username,
		cfg.RedisClient.Password,
	)

	api := tiktok.NewClient(tiktok.Config{
		ClientKey:      cfg.TikTok.ClientKey,
		ClientSecret:   cfg.TikTok.ClientSecret,
		TokenURL:       cfg.TikTok.TokenURL,
		QueryURL:       cfg.TikTok.QueryURL,
		DetailURL:      cfg.TikTok.DetailURL,
		UserURL:        cfg.TikTok.UserURL,
		RequestTimeout: time.Duration(cfg.Scraper.RequestTimeoutSecs) * time.Second,
		RetryAttempts:  cfg.Scraper.TransportRetries,
		RetryDelay:     time.Duration(cfg.Scraper.CooldownSeconds) * time.Second,
	})

	reconcile := usecase.NewReconcileUseCase(videos, accounts)
	reports := usecase.NewReportUseCase(videos, aggregates, time.Duration(cfg.Scraper.CacheTTLHours)*time.Hour)
	pipeline := usecase.NewPipelineUseCase(api, videos, accounts, reconcile, reports, cfg.TikTok, cfg.Scraper)
	backlog := usecase.NewBacklogUseCase(videos, accounts)

	switch mode {
	case "full-run":
		return pipeline.RunFull(ctx)

	case "single-day":
		var day time.Time
		if date != "" {
			var err error
			day, err = time.Parse(tiktok.DateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid -date %q: %w", date, err)
			}
		}
		return pipeline.RunSingleDay(ctx, day)

	case "accounts-only":
		return pipeline.RunAccounts(ctx)

	case "test-limited":
		return pipeline.RunTest(ctx)

	case "status":
		videoStats, accountStats, err := backlog.Status(ctx)
		if err != nil {
			return err
		}
		logger.GetLogger().WithFields(map[string]interface{}{
			"videos_total":       videoStats.Total,
			"videos_attempted":   videoStats.Attempted,
			"videos_success":     videoStats.Success,
			"accounts_total":     accountStats.Total,
			"accounts_attempted": accountStats.Attempted,
			"accounts_success":   accountStats.Success,
		}).Info("Backlog status")
		return nil

	case "export-csv":
		_, err := backlog.ExportCSV(ctx, out)
		return err

	case "enqueue":
		if file == "" {
			return fmt.Errorf("enqueue mode needs -file")
		}
		_, err := backlog.EnqueueFromFile(ctx, file)
		return err

	case "promote":
		if file == "" {
			return fmt.Errorf("promote mode needs -file")
		}
		var minDate *time.Time
		if cutoff != "" {
			day, err := time.Parse(tiktok.DateLayout, cutoff)
			if err != nil {
				return fmt.Errorf("invalid -cutoff %q: %w", cutoff, err)
			}
			minDate = &day
		}
		_, err := backlog.PromoteFromFile(ctx, file, minDate)
		return err

	case "serve":
		return serve(ctx, cfg, reconcile, videos, reports)

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func serve(ctx context.Context, cfg configuration.Config, reconcile usecase.IReconcileUseCase, videos *persistence.VideoRepository, reports usecase.IReportUseCase) error {
	scraperHandler := httpHandler.NewScraperHandler(reconcile, videos)
	reportHandler := httpHandler.NewReportHandler(reports)
	router := server.InitiateRouter(scraperHandler, reportHandler, cfg.App.SecretKey)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.GetLogger().WithField("port", cfg.App.Port).Info("HTTP server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
