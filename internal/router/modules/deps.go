package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
)

// Deps is shared by every module. A nil Redis disables rate limiting.
type Deps struct {
	Redis *redis.Client
	Auth  gin.HandlerFunc
}

// protected returns a group that requires a valid session, with a soft
// per-IP limit and a per-user limit.
func (d Deps) protected(rg *gin.RouterGroup) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(
		d.Auth,
		middleware.RateLimit(d.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(d.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	return g
}
