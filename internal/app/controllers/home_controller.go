package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/pkg/logger"
)

var indexPage = page{template: "index.html", title: "Home", currentPage: "home"}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HomeController serves the index page and the health check
type HomeController struct {
	overviewService services.OverviewService
	db              Pinger
}

// NewHomeController creates a new HomeController
func NewHomeController(overviewService services.OverviewService, db Pinger) *HomeController {
	return &HomeController{
		overviewService: overviewService,
		db:              db,
	}
}

// Index shows links to each list page with record counts
func (c *HomeController) Index(ctx *gin.Context) {
	counts, err := c.overviewService.Counts(ctx.Request.Context())
	status, formError := http.StatusOK, ""
	if err != nil {
		logger.FromContext(ctx.Request.Context()).Error().Err(err).Msg("Failed to count records")
		status, formError = http.StatusInternalServerError, msgLoadFailed
	}

	render(ctx, status, indexPage, gin.H{
		"Counts":    counts,
		"FormError": formError,
	})
}

// Health reports service and database status
func (c *HomeController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.FromContext(ctx.Request.Context()).Warn().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Database: "down"})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
