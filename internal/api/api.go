// Package api exposes the operational HTTP surface: manual job triggers
// and workbook export. The downstream reporting API lives elsewhere.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agriprice/internal/export"
	"agriprice/internal/ingest"
	"agriprice/internal/jobs"
	"agriprice/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	runner *jobs.Runner
	store  *store.Store
	logger *zap.Logger
}

func SetupRoutes(r *gin.RouterGroup, runner *jobs.Runner, st *store.Store, logger *zap.Logger) *Handler {
	handler := &Handler{
		runner: runner,
		store:  st,
		logger: logger,
	}

	jobsGroup := r.Group("/jobs")
	{
		jobsGroup.POST("/daily", handler.trigger(jobs.JobDaily, runner.RunDaily, 30*time.Minute))
		jobsGroup.POST("/weekly", handler.trigger(jobs.JobWeekly, runner.RunWeekly, 10*time.Minute))
		jobsGroup.POST("/monthly", handler.trigger(jobs.JobMonthly, runner.RunMonthly, 10*time.Minute))
		jobsGroup.POST("/yearly", handler.trigger(jobs.JobYearly, runner.RunYearly, 10*time.Minute))
	}

	r.GET("/export/monthly.xlsx", handler.ExportMonthly)

	return handler
}

// optionsFromQuery maps trigger query parameters onto resolver options.
// Validation happens in the resolver, not here.
func optionsFromQuery(c *gin.Context) ingest.Options {
	return ingest.Options{
		TargetDate:   c.Query("targetDate"),
		CategoryCode: c.Query("categoryCode"),
		Year:         c.Query("year"),
		Month:        c.Query("month"),
		Week:         c.Query("week"),
	}
}

// trigger runs a job synchronously under a bounded context, translating
// the pipeline's error taxonomy into status codes.
func (h *Handler) trigger(jobType string, run func(context.Context, ingest.Options) error, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := optionsFromQuery(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		err := run(ctx, opts)
		switch {
		case errors.Is(err, ingest.ErrInvalidParam):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			h.logger.Error("manual trigger failed",
				zap.String("jobType", jobType),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "job run failed"})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "completed", "job": jobType})
		}
	}
}

// ExportMonthly streams one year's monthly rollups as an xlsx workbook.
func (h *Handler) ExportMonthly(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be numeric"})
			return
		}
		year = parsed
	}

	rows, err := h.store.MonthlyPricesByYear(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("monthly export query failed", zap.Int("year", year), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="monthly-prices-%d.xlsx"`, year))
	if err := export.WriteMonthlyWorkbook(c.Writer, year, rows); err != nil {
		h.logger.Error("monthly export write failed", zap.Int("year", year), zap.Error(err))
	}
}
