package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/constants"
)

// Leaderboard: GET /api/leaderboard?limit=N&gameType=math
// 세션 단위 전역 리더보드를 점수 내림차순으로 반환한다.
func (h *APIHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	entries, err := h.leaderboard.GlobalLeaderboard(ctx, limit, c.Query("gameType"))
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
	})
}

// RegisteredUsers: GET /api/leaderboard/users?limit=N
// 등록 유저 명단을 게임 수/최고 점수와 함께 최고 점수순으로 반환한다.
func (h *APIHandler) RegisteredUsers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	users, err := h.leaderboard.RegisteredUsers(ctx, limit)
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
	})
}

// MyStats: GET /api/leaderboard/me (인증 필요)
// 현재 유저의 최고 점수, 순위, 평균 정답률을 반환한다.
func (h *APIHandler) MyStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	stats, err := h.leaderboard.UserStats(ctx, currentUserID(c))
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
