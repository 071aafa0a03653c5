package app

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emlakpro/core/internal/middleware"
	"github.com/emlakpro/core/internal/modules/auth"
	"github.com/emlakpro/core/internal/modules/draft"
	"github.com/emlakpro/core/internal/modules/listing"
	"github.com/emlakpro/core/internal/modules/related"
	"github.com/emlakpro/core/internal/modules/upload"
	"github.com/emlakpro/core/internal/pkg/response"
)

type routeDeps struct {
	auth    *auth.Handler
	listing *listing.Handler
	related *related.Handler
	upload  *upload.Handler
	draft   *draft.Handler
}

func (a *App) registerRoutes(deps routeDeps) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "emlakpro-core",
		"version": "1.0.0",
	}
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, appInfo)
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"pong": true, "ts": time.Now().Unix()})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.OptionalAuth())

	v1.POST("/auth/login", deps.auth.Login)

	listings := v1.Group("/listings")
	{
		listings.GET("", deps.listing.List)
		listings.GET("/detail", deps.listing.Detail)
		listings.GET("/related", deps.related.Related)
		listings.POST("/:id/view", deps.listing.View)
		listings.POST("/:id/contact", deps.listing.Contact)

		listings.POST("", authMW, deps.listing.Create)
		listings.DELETE("", authMW, deps.listing.Delete)
		listings.PATCH("", authMW, deps.listing.Update)
		listings.PUT("/update/price", authMW, deps.listing.UpdatePrice)
		listings.PUT("/update/title", authMW, deps.listing.UpdateTitle)
		listings.POST("/duplicate", authMW, deps.listing.Duplicate)
		listings.POST("/draft", authMW, deps.draft.Allocate)
		listings.DELETE("/delete-image", authMW, deps.listing.DeleteImage)
		listings.DELETE("/delete-temp", authMW, deps.draft.DeleteTemp)
	}

	uploads := v1.Group("/upload", authMW)
	{
		uploads.POST("", deps.upload.Upload)
		uploads.POST("/retry", deps.upload.Retry)
		uploads.DELETE("/remove", deps.upload.Remove)
		uploads.PUT("/reorder", deps.upload.Reorder)
		uploads.POST("/attach", deps.upload.Attach)
	}
	v1.DELETE("/storage/delete", authMW, deps.upload.DeleteObject)
}
