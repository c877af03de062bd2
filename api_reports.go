package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/jxmls/pano-daily-checks-sub000/models/reports"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
)

func archiveHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		granularity := reports.ArchiveGranularity(c.DefaultQuery("granularity", string(reports.ArchiveMonthly)))
		if granularity != reports.ArchiveMonthly && granularity != reports.ArchiveQuarterly {
			c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be month or quarter"})
			return
		}

		var criteria models.FilterCriteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		buckets, err := reports.ArchiveReport(ctx, a.submissions, a.compliance, criteria, granularity, a.clock)
		if err != nil {
			config.LogError(logger, "api_reports.go", "archiveHandler", "ArchiveReport", granularity, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build archive"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"buckets": buckets})
	}
}

func exportHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		format := c.DefaultQuery("format", "xlsx")
		if format != "xlsx" && format != "csv" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or csv"})
			return
		}

		var criteria models.FilterCriteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		summary, err := reports.DailyComplianceReport(ctx, a.submissions, a.compliance, criteria, a.clock)
		if err != nil {
			config.LogError(logger, "api_reports.go", "exportHandler", "DailyComplianceReport", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}

		stamp := a.clock.Now().Format("2006-01-02")
		if format == "csv" {
			c.Header("Content-Type", "text/csv")
			c.Header("Content-Disposition", `attachment; filename=compliance-`+stamp+`.csv`)
			if err := reports.ExportCSV(c.Writer, summary); err != nil {
				config.LogError(logger, "api_reports.go", "exportHandler", "ExportCSV", nil, err)
			}
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename=compliance-`+stamp+`.xlsx`)
		if err := reports.ExportExcel(c.Writer, summary); err != nil {
			config.LogError(logger, "api_reports.go", "exportHandler", "ExportExcel", nil, err)
		}
	}
}
