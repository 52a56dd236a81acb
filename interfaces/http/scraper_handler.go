package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Nico-AP/datadonation-wi/domain/dto"
	"github.com/Nico-AP/datadonation-wi/domain/repository"
	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
	"github.com/Nico-AP/datadonation-wi/usecase"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

// IScraperHandler exposes the remote import and retrieval endpoints used by
// external scraper hosts to push metadata into this database.
type IScraperHandler interface {
	ImportVideos(c *gin.Context)
	GetVideo(c *gin.Context)
	UpdateVideo(c *gin.Context)
}

type ScraperHandler struct {
	reconcile usecase.IReconcileUseCase
	videos    repository.IVideoStore
}

func NewScraperHandler(reconcile usecase.IReconcileUseCase, videos repository.IVideoStore) IScraperHandler {
	return &ScraperHandler{reconcile: reconcile, videos: videos}
}

// ImportVideos ingests a batch of sectioned video payloads. Entries that fail
// are skipped and counted; the batch itself always succeeds. The optional
// scrapets query parameter carries the scrape timestamp of the remote host
// and must be a float when present.
func (h *ScraperHandler) ImportVideos(c *gin.Context) {
	if ts := c.Query("scrapets"); ts != "" {
		if _, err := strconv.ParseFloat(ts, 64); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "Invalid format of url parameter scrapets provided. Must be convertible to float.",
			})
			return
		}
	}

	var entries []dto.VideoDetail
	if err := c.ShouldBindJSON(&entries); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	var posted, skipped int
	for i := range entries {
		entry := &entries[i]
		if entry.VideoMetadata == nil {
			skipped++
			continue
		}
		if err := h.reconcile.ReconcileVideo(c.Request.Context(), entry.VideoMetadata.ID, entry); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"video_id": entry.VideoMetadata.ID,
				"error":    err,
			}).Info("Import entry skipped")
			skipped++
			continue
		}
		posted++
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Imported %d records successfully. %d were skipped due to an error.", posted, skipped),
	})
}

// GetVideo returns one video with its hashtag and mention sets.
func (h *ScraperHandler) GetVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video_id"})
		return
	}
	video, err := h.videos.GetByVideoID(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while loading video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, video)
}

// UpdateVideo writes the metadata of one video, but only while no scrape
// attempt has been recorded for it. Earlier attempts are assumed to be the
// more reliable ones.
func (h *ScraperHandler) UpdateVideo(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("video_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video_id"})
		return
	}

	video, err := h.videos.GetByVideoID(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while loading video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if video.ScrapeDate != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "The metadata for this video have already been scraped. Updates are only allowed for videos with scrape_date = None.",
		})
		return
	}

	var detail dto.VideoDetail
	if err := c.ShouldBindJSON(&detail); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	if err := h.reconcile.ReconcileVideo(c.Request.Context(), videoID, &detail); err != nil {
		var missing *usecase.MissingSectionError
		if errors.As(err, &missing) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": missing.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error while updating video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	updated, err := h.videos.GetByVideoID(c.Request.Context(), videoID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while reloading video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
