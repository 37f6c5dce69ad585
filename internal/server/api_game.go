package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/domain"
)

// SubmitSession: POST /api/game/sessions (인증 필요)
// 게임 종료 시 클라이언트가 결과를 제출한다. 정답률은 서버가 재계산한다.
func (h *APIHandler) SubmitSession(c *gin.Context) {
	var input domain.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	session, err := h.leaderboard.SubmitSession(ctx, currentUserID(c), input)
	if err != nil {
		status, code := mapAppErrorToHTTP(err)
		writeError(c, status, code)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"session": session,
	})
}

// Question: GET /api/game/question?level=N
// 레벨에 맞는 문제를 출제한다. 정답은 응답에 포함되지 않는다.
func (h *APIHandler) Question(c *gin.Context) {
	level := 1
	if raw := c.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT")
			return
		}
		level = parsed
	}

	q := h.generator.Generate(level)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"question": gin.H{
			"operand1": q.Operand1,
			"operand2": q.Operand2,
			"operator": q.Operator,
			"prompt":   q.Prompt(),
			"level":    level,
		},
		"roundDuration": int(constants.GameRules.RoundDuration / time.Second),
	})
}
