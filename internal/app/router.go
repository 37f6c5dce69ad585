package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kapu/mathsprint-site-go/internal/config"
	"github.com/kapu/mathsprint-site-go/internal/constants"
	"github.com/kapu/mathsprint-site-go/internal/health"
	"github.com/kapu/mathsprint-site-go/internal/server"
)

// newAPIRouter: API 서버의 gin 라우터를 구성한다.
func newAPIRouter(ctx context.Context, cfg *config.Config, handler *server.APIHandler, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(constants.ServerConfig.TrustedProxies); err != nil {
		logger.Warn("trusted_proxies_config_failed", "error", err)
	}

	router.Use(gin.Recovery())
	router.Use(server.LoggerMiddleware(ctx, logger, "/health", "/metrics"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     constants.CORSConfig.AllowOrigins,
		AllowMethods:     constants.CORSConfig.AllowMethods,
		AllowHeaders:     constants.CORSConfig.AllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	router.Use(server.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Get())
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAPIRoutes(router, cfg, handler)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "NOT_FOUND"})
	})

	return router
}

// registerAPIRoutes: API 엔드포인트를 등록한다.
func registerAPIRoutes(router *gin.Engine, cfg *config.Config, handler *server.APIHandler) {
	submitLimiter := server.NewSubmitRateLimiter()

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.GET("/login", handler.Login)
			auth.GET("/callback", handler.Callback)
			auth.POST("/logout", handler.Logout)
			auth.GET("/me", handler.Me)
		}

		gameGroup := api.Group("/game")
		{
			gameGroup.GET("/question", handler.Question)
			gameGroup.POST("/sessions", handler.RequireUser(), submitLimiter.Middleware(), handler.SubmitSession)
		}

		lb := api.Group("/leaderboard")
		{
			lb.GET("", handler.Leaderboard)
			lb.GET("/users", handler.RegisteredUsers)
			lb.GET("/me", handler.RequireUser(), handler.MyStats)
		}

		contentGroup := api.Group("/content")
		{
			contentGroup.GET("/:section", handler.ContentList)
			contentGroup.GET("/:section/:slug", handler.ContentPage)
		}

		admin := api.Group("/admin", server.APIKeyAuthMiddleware(cfg.Server.APIKey))
		{
			admin.GET("/system", handler.SystemStats)
		}
	}
}
