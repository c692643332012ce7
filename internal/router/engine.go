package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/volunteer-hub/internal/container"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/response"
	"github.com/oksasatya/volunteer-hub/pkg/validation"
)

// NewEngine builds the gin engine with global middleware and every module.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// With no configured origins, development reflects any origin; other
	// environments allow none.
	reflectAny := cfg.IsDevelopment() && len(cfg.CORSOrigins()) == 0
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		AllowOriginFunc:  func(string) bool { return reflectAny },
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.IsDevelopment() {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, http.StatusOK, map[string]string{"status": "ok"}, "healthy", nil)
	})
	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "not_found", "route not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
