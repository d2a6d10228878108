package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthcheckHandler struct {
	db *gorm.DB
}

func NewHealthcheckHandler(db *gorm.DB) *HealthcheckHandler {
	return &HealthcheckHandler{db: db}
}

// Healthcheck answers 200 only when the database connection is usable, so a
// load balancer can pull the instance before requests start failing.
func (h *HealthcheckHandler) Healthcheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
