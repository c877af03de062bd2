package main

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/jxmls/pano-daily-checks-sub000/models/reports"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func complianceDaysHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		var criteria models.FilterCriteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		summary, err := reports.DailyComplianceReport(ctx, a.submissions, a.compliance, criteria, a.clock)
		if err != nil {
			config.LogError(logger, "api_compliance.go", "complianceDaysHandler", "DailyComplianceReport", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}

// withDayLock serializes compliance writes per day key. The lock is a
// best-effort optimization: two admins editing the same day still resolve
// last-write-wins at the row if redis is down.
func withDayLock(dayKey string, fn func() error) error {
	locker := config.GetRedisLock()
	if locker == nil {
		return fn()
	}
	lock, err := locker.Obtain(config.GetRedisContext(), "ComplianceLock:"+dayKey, 5*time.Second, nil)
	if err != nil {
		// redis unavailable or lock contended; proceed last-write-wins
		return fn()
	}
	defer lock.Release(config.GetRedisContext())
	return fn()
}

func acknowledgeDayHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		dayKey := c.Param("dateKey")
		if !dateKeyPattern.MatchString(dayKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateKey must be YYYY-MM-DD"})
			return
		}

		var record models.ComplianceRecord
		err := withDayLock(dayKey, func() error {
			var toggleErr error
			record, toggleErr = a.compliance.ToggleAcknowledged(ctx, dayKey)
			return toggleErr
		})
		if err != nil {
			config.LogError(logger, "api_compliance.go", "acknowledgeDayHandler", "ToggleAcknowledged", dayKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func patchDayHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		dayKey := c.Param("dateKey")
		if !dateKeyPattern.MatchString(dayKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dateKey must be YYYY-MM-DD"})
			return
		}

		var patch models.CompliancePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		var record models.ComplianceRecord
		err := withDayLock(dayKey, func() error {
			var upsertErr error
			record, upsertErr = a.compliance.Upsert(ctx, dayKey, patch)
			return upsertErr
		})
		if err != nil {
			config.LogError(logger, "api_compliance.go", "patchDayHandler", "compliance.Upsert", dayKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
