package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "github.com/Nico-AP/datadonation-wi/interfaces/http"
	"github.com/Nico-AP/datadonation-wi/interfaces/middleware"
)

func InitiateRouter(
	scraperHandler httpHandler.IScraperHandler,
	reportHandler httpHandler.IReportHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8000", "http://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public report data, served from the aggregate cache only.
	reports := router.Group("reports")
	{
		reports.GET("/temporal-distribution", reportHandler.TemporalDistribution)
		reports.GET("/party-breakdown", reportHandler.PartyBreakdown)
		reports.GET("/views-bars", reportHandler.ViewsBars)
		reports.GET("/likes-bars", reportHandler.LikesBars)
	}

	// Import and retrieval endpoints for the external scraper hosts.
	apis := router.Group("apis")
	apis.Use(middleware.Auth(secretKey))
	{
		apis.POST("/videos/import", scraperHandler.ImportVideos)
		apis.GET("/video/:video_id", scraperHandler.GetVideo)
		apis.POST("/video/:video_id/update", scraperHandler.UpdateVideo)
	}

	return router
}
