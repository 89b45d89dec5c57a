package handlers

import (
	"net/http"

	"nikodex/db"
	"nikodex/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Readyz(c *gin.Context) {
	if err := db.Ping(); err != nil {
		logger.Instance.Warn("database not ready", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
