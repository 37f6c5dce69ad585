package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/service/identity"
)

// Login: GET /api/auth/login
// OAuth 인가 URL을 발급한다. 프론트엔드가 이 URL로 리다이렉트한다.
func (h *APIHandler) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	authURL, err := h.identity.BeginLogin(ctx)
	if err != nil {
		status, code := mapIdentityErrorToHTTP(err)
		writeError(c, status, string(code))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"authUrl": authURL,
	})
}

// Callback: GET /api/auth/callback?state=...&code=...
// OAuth 콜백을 처리하고 세션 토큰을 발급한다.
func (h *APIHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	session, user, err := h.identity.CompleteLogin(ctx, state, code)
	if err != nil {
		status, errCode := mapIdentityErrorToHTTP(err)
		writeError(c, status, string(errCode))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": gin.H{
			"token":     session.Token,
			"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
		},
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"avatarUrl":   user.AvatarURL,
		},
	})
}

// Logout: POST /api/auth/logout
func (h *APIHandler) Logout(c *gin.Context) {
	token, ok := parseBearerToken(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, string(identity.CodeUnauthorized))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	if err := h.identity.Logout(ctx, token); err != nil {
		status, code := mapIdentityErrorToHTTP(err)
		writeError(c, status, string(code))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me: GET /api/auth/me
func (h *APIHandler) Me(c *gin.Context) {
	token, ok := parseBearerToken(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, string(identity.CodeUnauthorized))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.RequestTimeout.APIRequest)
	defer cancel()

	user, err := h.identity.Me(ctx, token)
	if err != nil {
		status, code := mapIdentityErrorToHTTP(err)
		writeError(c, status, string(code))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"avatarUrl":   user.AvatarURL,
			"createdAt":   user.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}
