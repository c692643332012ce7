package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
)

// AuthModule wires account routes.
// Public: POST /api/auth/signup, /api/auth/login, /api/auth/refresh
// Protected: POST /api/auth/logout, GET /api/profile
// Admin: GET /api/users, PATCH /api/users/:id/toggle-status
type AuthModule struct {
	Handler *handlers.UserHandler
	Deps    Deps
}

func NewAuthModule(h *handlers.UserHandler, deps Deps) *AuthModule {
	return &AuthModule{Handler: h, Deps: deps}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.Deps.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Deps.Redis, 10, time.Minute, middleware.KeyByIP(), nil)   // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(m.Deps.Redis, 60, time.Minute, middleware.KeyByIP(), nil) // 60 req/min per IP

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := m.Deps.protected(rg)
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.GET("/users", m.Handler.List)
		auth.PATCH("/users/:id/toggle-status", m.Handler.ToggleStatus)
	}
}
