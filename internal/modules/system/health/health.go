package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lensfeed/core/internal/modules/moderation"
	"github.com/lensfeed/core/internal/pkg/cron"
	pkgredis "github.com/lensfeed/core/internal/pkg/redis"
	"github.com/lensfeed/core/internal/pkg/response"
)

// RegisterRoutes exposes liveness and scheduler introspection endpoints.
// Health reports degraded when the database or redis is unreachable or no
// model snapshot is loaded; the service still answers, it just cannot
// accept new comments while the model is missing.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client, engine *moderation.Engine, sched *cron.Scheduler) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil
		redisOK := rc.Raw().Ping(c.Request.Context()).Err() == nil
		modelOK := engine.Info() != nil

		status := "ok"
		code := http.StatusOK
		if !dbOK || !redisOK || !modelOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"redis":    redisOK,
			"model":    modelOK,
		})
	})

	cronGroup := rg.Group("/health/cron")
	{
		cronGroup.GET("", func(c *gin.Context) {
			response.OK(c, sched.List())
		})

		cronGroup.POST("/run/:name", func(c *gin.Context) {
			// The job runs in the background and outlives this request, so
			// it must not inherit the request context.
			if err := sched.Run(context.Background(), c.Param("name")); err != nil {
				response.NotFoundMsg(c, err.Error())
				return
			}
			response.OK(c, gin.H{"message": "job triggered"})
		})
	}
}
