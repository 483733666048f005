package app

import (
	"github.com/gin-gonic/gin"

	"github.com/lensfeed/core/internal/middleware"
	"github.com/lensfeed/core/internal/modules/content/comment"
	"github.com/lensfeed/core/internal/modules/content/post"
	"github.com/lensfeed/core/internal/modules/moderation"
	"github.com/lensfeed/core/internal/modules/stats/analytics"
	"github.com/lensfeed/core/internal/modules/system/health"
	"github.com/lensfeed/core/internal/modules/system/settings"
	"github.com/lensfeed/core/internal/pkg/response"
	"github.com/lensfeed/core/internal/pkg/taskqueue"
)

const apiPrefix = "/api/v2"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "lensfeed-core",
		"version": "1.0.0",
	}
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, appInfo)
	})

	// Rate limiting and idempotence run on every API route (requires Redis).
	api := r.Group(apiPrefix)
	api.Use(middleware.RateLimit(a.rc.Raw()))
	api.Use(middleware.Idempotence(a.rc.Raw()))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Shared services
	taskSvc := taskqueue.NewService(a.rc)
	settingsSvc := settings.NewService(db, a.cfg.Moderation.DefaultThreshold)
	a.analytics = analytics.NewService(db, a.rc, a.logger.Named("analytics"))

	commentStore := comment.NewStore(db)
	commentSvc := comment.NewService(commentStore, a.engine, settingsSvc)
	postSvc := post.NewService(post.NewStore(db), commentStore)

	// Content
	post.NewHandler(postSvc, a.logger).RegisterRoutes(api)
	comment.NewHandler(commentSvc, a.logger).RegisterRoutes(api)

	// Moderation and system
	moderation.NewHandler(a.engine, taskSvc, a.logger.Named("moderation")).RegisterRoutes(api)
	settings.NewHandler(settingsSvc).RegisterRoutes(api)
	analytics.NewHandler(a.analytics, a.logger).RegisterRoutes(api)
	health.RegisterRoutes(api, db, a.rc, a.engine, a.sched)
}
