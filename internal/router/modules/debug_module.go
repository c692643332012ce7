package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
)

type DebugModule struct {
	Deps Deps
}

func NewDebugModule(deps Deps) *DebugModule { return &DebugModule{Deps: deps} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, rate-limited per IP; private networks bypass the limit
	rl := middleware.RateLimit(m.Deps.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
