package controller

import (
	"context"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is satisfied by repository.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports database and Redis reachability.
type HealthController struct {
	DB    Pinger
	Redis Pinger
}

// NewHealthController creates a HealthController. redis may be nil when Redis is disabled.
func NewHealthController(db Pinger, redis Pinger) *HealthController {
	return &HealthController{DB: db, Redis: redis}
}

// @Summary Health check
// @Description Reports database and, when enabled, Redis availability
// @Tags System
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.DB.Ping(pingCtx); err != nil {
		logger.Log.Warn("Health check failed", zap.String("component", "database"), zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{"database": "up"}
	if c.Redis != nil {
		if err := c.Redis.Ping(pingCtx); err != nil {
			logger.Log.Warn("Health check failed", zap.String("component", "redis"), zap.Error(err))
			components["redis"] = "down"
		} else {
			components["redis"] = "up"
		}
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
