package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/config"
	"github.com/jengzang/places-backend-go/internal/handler"
	"github.com/jengzang/places-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers wired into the router
type Handlers struct {
	Place      *handler.PlaceHandler
	Review     *handler.ReviewHandler
	Detection  *handler.DetectionHandler
	Preference *handler.PreferenceHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Places Backend API is running",
		})
	})

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		places := api.Group("/places")
		{
			places.GET("", h.Place.GetPlaces)
			places.GET("/:id", h.Place.GetPlaceByID)
			places.GET("/:id/visits", h.Place.GetVisits)
			places.DELETE("/:id", auth, h.Place.DeletePlace)
		}

		// 原始定位点摄入
		api.POST("/fixes", auth, h.Place.IngestFixes)

		reviews := api.Group("/reviews")
		{
			reviews.GET("/pending", h.Review.GetPending)
			reviews.GET("/:id", h.Review.GetReview)
			reviews.POST("/:id/approve", auth, h.Review.Approve)
			reviews.POST("/:id/edit-approve", auth, h.Review.EditApprove)
			reviews.POST("/:id/reject", auth, h.Review.Reject)
		}

		detection := api.Group("/detection")
		{
			detection.POST("/runs", auth, h.Detection.StartRun)
			detection.GET("/runs", h.Detection.ListRuns)
			detection.GET("/runs/:id", h.Detection.GetRun)
		}

		preferences := api.Group("/preferences")
		{
			preferences.GET("", h.Preference.GetPreferences)
			preferences.GET("/corrections", h.Preference.GetCorrections)
			preferences.GET("/:category", h.Preference.GetPreference)
		}
	}

	return r
}
