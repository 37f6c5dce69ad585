package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/health"
)

// SystemStats: GET /api/admin/system (API Key 보호)
// 프로세스 리소스 사용량과 의존 서비스 상태를 반환한다.
func (h *APIHandler) SystemStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	stats, err := h.systemStats.GetCurrentStats(ctx)
	if err != nil {
		h.logger.Error("Failed to collect system stats", "error", err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	dbStatus := "ok"
	if h.db != nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, constants.RequestTimeout.DatabasePing)
		if err := h.db.Ping(pingCtx); err != nil {
			dbStatus = "unreachable"
		}
		pingCancel()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"version":  health.GetVersion(),
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"stats":    stats,
		"database": dbStatus,
	})
}
