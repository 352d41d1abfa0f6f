package handler

import (
	"context"
	"net/http"
	"time"

	"TripPlanner-App/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker は依存先の疎通確認
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler db が nil の場合はプロセスの生存のみを返す
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck GET /api/health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.HealthCheck(ctx); err != nil {
			logger.Log.Warn("⚠️ データベースのヘルスチェックに失敗", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"service":  "TripPlanner-App",
				"database": "unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "TripPlanner-App"})
}
