package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PRIYADHARSANK/Study-Tool/internal/api/middleware"
	"github.com/PRIYADHARSANK/Study-Tool/internal/api/study"
	"github.com/PRIYADHARSANK/Study-Tool/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins  []string
	MaxUploadSize int64
}

// SetupRouter sets up the Gin router
func SetupRouter(studyService *service.StudyService, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	studyHandler := study.NewHandler(studyService, cfg.MaxUploadSize)
	sessionGroup := r.Group("/api/sessions")
	studyHandler.RegisterRoutes(sessionGroup)

	return r
}
