package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nico-AP/datadonation-wi/infrastructure/logger"
	"github.com/Nico-AP/datadonation-wi/usecase"
)

// IReportHandler serves the cached public aggregates. The endpoints never
// touch the backlog tables; an expired or absent cache entry renders as an
// empty response so the report page can show "data not yet available".
type IReportHandler interface {
	TemporalDistribution(c *gin.Context)
	PartyBreakdown(c *gin.Context)
	ViewsBars(c *gin.Context)
	LikesBars(c *gin.Context)
}

type ReportHandler struct {
	reports usecase.IReportUseCase
}

func NewReportHandler(reports usecase.IReportUseCase) IReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) TemporalDistribution(c *gin.Context) {
	data, ok, err := h.reports.TemporalDistribution(c.Request.Context())
	respond(c, data, ok, err)
}

func (h *ReportHandler) PartyBreakdown(c *gin.Context) {
	data, ok, err := h.reports.PartyBreakdown(c.Request.Context())
	respond(c, data, ok, err)
}

func (h *ReportHandler) ViewsBars(c *gin.Context) {
	data, ok, err := h.reports.ViewsBars(c.Request.Context())
	respond(c, data, ok, err)
}

func (h *ReportHandler) LikesBars(c *gin.Context) {
	data, ok, err := h.reports.LikesBars(c.Request.Context())
	respond(c, data, ok, err)
}

func respond(c *gin.Context, data any, ok bool, err error) {
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while reading aggregate cache")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "data": data})
}
