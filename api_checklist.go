package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
)

type newSubmissionRequest struct {
	Module      string                   `json:"module" binding:"required"`
	ClientNames []string                 `json:"client_names"`
	Payload     models.SubmissionPayload `json:"payload"`
	Passed      *bool                    `json:"passed"`
	// CreatedAt lets a form backfill a missed day; empty means "now".
	CreatedAt string `json:"created_at"`
}

func createSubmissionHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		var req newSubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		engineer, _ := utils.GetUsernameFromContext(ctx)
		if user, err := models.GetUserByUsername(ctx, engineer); err == nil {
			engineer = user.Name
		}

		createdAt := a.clock.Now()
		if req.CreatedAt != "" {
			parsed, err := time.ParseInLocation(time.RFC3339, req.CreatedAt, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "created_at must be RFC3339"})
				return
			}
			createdAt = parsed
		}

		submission := &models.Submission{
			Module:      models.NormalizeModule(req.Module),
			Engineer:    engineer,
			ClientNames: req.ClientNames,
			Payload:     req.Payload,
			Passed:      req.Passed,
			CreatedAt:   createdAt,
		}

		if err := a.submissions.Create(ctx, submission); err != nil {
			config.LogError(logger, "api_checklist.go", "createSubmissionHandler", "submissions.Create", submission.Module, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save submission"})
			return
		}

		// Unknown modules are stored and listed but never satisfy a
		// required-module slot; tell the client so the form can warn.
		c.JSON(http.StatusCreated, gin.H{
			"submission":      submission,
			"required_module": submission.ModuleKey().IsRequired(),
		})
	}
}

func listSubmissionsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		var criteria models.FilterCriteria
		if err := c.ShouldBindQuery(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		// toggle=<name> applies the quick filter on top of the current one,
		// clearing it when it is already active
		if name := c.Query("toggle"); name != "" {
			criteria.ToggleQuickFilter(models.QuickFilter(name))
		}

		subs, err := a.submissions.List(ctx)
		if err != nil {
			config.LogError(logger, "api_checklist.go", "listSubmissionsHandler", "submissions.List", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load submissions"})
			return
		}

		filtered := models.ApplyFilter(subs, criteria, a.clock)
		c.JSON(http.StatusOK, gin.H{
			"items":        filtered,
			"total":        len(filtered),
			"quick_filter": criteria.QuickFilter,
		})
	}
}
