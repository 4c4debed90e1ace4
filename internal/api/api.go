// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/seriseptian210525/odoo-stock-dashboard/internal/api/handlers"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/api/middleware"
	"github.com/seriseptian210525/odoo-stock-dashboard/internal/service"
)

type Services struct {
	Dashboard *service.DashboardService
}

// NewRouter builds the dashboard HTTP API. Everything under /api/v1 sits
// behind the password gate; /health stays open for probes.
func NewRouter(services *Services, allowedOrigins []string, appPassword string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.PasswordHeader},
		ExposeHeaders:    []string{"Content-Length"},
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
	apiGroup.Use(middleware.PasswordGate(appPassword))

	if services != nil && services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)

		movesGroup := apiGroup.Group("/moves")
		{
			movesGroup.POST("/upload", dashboardHandler.Upload)
			movesGroup.GET("", dashboardHandler.GetMoves)
			movesGroup.GET("/inbound", dashboardHandler.GetInbound)
			movesGroup.GET("/outbound", dashboardHandler.GetOutbound)
		}

		apiGroup.POST("/refresh", dashboardHandler.Refresh)
		apiGroup.GET("/pivot", dashboardHandler.GetPivot)
		apiGroup.GET("/kpi/cards", dashboardHandler.GetCards)
		apiGroup.GET("/filters/options", dashboardHandler.GetFilterOptions)
		apiGroup.GET("/status", dashboardHandler.GetStatus)
		apiGroup.GET("/runs", dashboardHandler.GetRuns)
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
