package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jxmls/pano-daily-checks-sub000/config"
	"github.com/jxmls/pano-daily-checks-sub000/models"
	"github.com/jxmls/pano-daily-checks-sub000/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		info, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			config.LogError(logger, "api_auth.go", "loginHandler", "models.Login", req.Username, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": ok})
	}
}

func currentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		username, _ := utils.GetUsernameFromContext(ctx)
		user, err := models.GetUserByUsername(ctx, username)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		user.PrepareGive()
		c.JSON(http.StatusOK, user)
	}
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := models.GetAllUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func revokeSessionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		username := c.Param("username")

		revoked, err := models.RevokeSessions(c.Request.Context(), username)
		if err != nil {
			config.LogError(logger, "api_auth.go", "revokeSessionsHandler", "models.RevokeSessions", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke sessions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"revoked": revoked})
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
			return
		}

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			config.LogError(logger, "api_auth.go", "createUserHandler", "models.CreateUser", input.Username, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}
