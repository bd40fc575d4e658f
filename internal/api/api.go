// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/botuai88-lab/Sohaco-KOC/internal/api/handlers"
	"github.com/botuai88-lab/Sohaco-KOC/internal/api/middleware"
	"github.com/botuai88-lab/Sohaco-KOC/internal/service"
)

func NewRouter(kocService *service.KOCService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	kocHandler := handlers.NewKOCHandler(kocService)
	kocGroup := apiGroup.Group("/kocs")
	{
		kocGroup.GET("", kocHandler.List)
		kocGroup.POST("", kocHandler.Create)
		kocGroup.PUT("/:rowId", kocHandler.Update)
		kocGroup.DELETE("", kocHandler.Delete)
		kocGroup.POST("/refresh", kocHandler.Refresh)
		kocGroup.POST("/import", kocHandler.Import)
		kocGroup.GET("/export", kocHandler.Export)
	}

	dashboardHandler := handlers.NewDashboardHandler(kocService)
	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
		dashboardGroup.GET("/leaderboards", dashboardHandler.GetLeaderboards)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
