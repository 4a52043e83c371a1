// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/influencerinsights/backend-go/internal/api/handlers"
	"github.com/influencerinsights/backend-go/internal/api/middleware"
	"github.com/influencerinsights/backend-go/internal/service"
)

type Services struct {
	Analysis   *service.AnalysisService
	Calculator *service.CalculatorService
	FX         *service.FXService
	Auth       *service.AuthService
	Export     *service.ExportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
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

	if services != nil {
		if services.Analysis != nil {
			analysisHandler := handlers.NewAnalysisHandler(services.Analysis, services.Export)
			apiGroup.POST("/analysis", analysisHandler.RunAnalysis)

			analysesGroup := apiGroup.Group("/analyses")
			{
				analysesGroup.GET("", analysisHandler.ListRecent)
				analysesGroup.DELETE("", analysisHandler.ClearAnalyses)
				analysesGroup.GET("/active", analysisHandler.GetActive)
				analysesGroup.PUT("/active", analysisHandler.SetActive)
				analysesGroup.GET("/:id", analysisHandler.GetAnalysis)
				analysesGroup.DELETE("/:id", analysisHandler.RemoveAnalysis)
				analysesGroup.POST("/:id/export", analysisHandler.ExportAnalysis)
			}

			exportsGroup := apiGroup.Group("/exports")
			{
				exportsGroup.GET("", analysisHandler.ListExports)
				exportsGroup.GET("/:id", analysisHandler.FetchExport)
			}
		}

		if services.Calculator != nil && services.FX != nil {
			calculatorHandler := handlers.NewCalculatorHandler(services.Calculator, services.FX)
			apiGroup.POST("/calculator", calculatorHandler.Calculate)
			apiGroup.GET("/fx", calculatorHandler.GetRates)
		}

		if services.Auth != nil {
			authHandler := handlers.NewAuthHandler(services.Auth)
			authGroup := apiGroup.Group("/auth")
			{
				authGroup.POST("/signup", authHandler.Signup)
				authGroup.POST("/login", authHandler.Login)
			}
		}
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
