// Package router assembles the Gin engine: middleware, health check, and the
// deal module routes under /api/v1.
package router

import (
	"context"
	"net/http"
	"time"

	"deal_finder_backend/internal/deals/handler"
	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/internal/deals/service"
	"deal_finder_backend/internal/http/middleware"
	"deal_finder_backend/platform/config"
	"deal_finder_backend/platform/logger"
	"deal_finder_backend/platform/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func New(cfg config.HTTPConfig, pool *pgxpool.Pool, log *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestTimer(log))
	engine.Use(corsMiddleware(cfg))

	repo := repository.New(pool)
	svc := service.New(repo, log)
	val := validator.New()
	apiHandler := handler.New(svc, val)

	// Health reports degraded instead of failing outright when the database is
	// unreachable; load balancers keep routing and the payload tells operators why.
	engine.GET("/api/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		dbStatus := "ok"
		if err := pool.Ping(ctx); err != nil {
			status = "degraded"
			dbStatus = err.Error()
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "database": dbStatus})
	})

	v1 := engine.Group("/api/v1")
	apiHandler.RegisterRoutes(v1)

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() || len(cfg.GetCORSOrigins()) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return cors.New(corsCfg)
}
