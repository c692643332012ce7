package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	Deps    Deps
}

func NewNotificationModule(h *handlers.NotificationHandler, deps Deps) *NotificationModule {
	return &NotificationModule{Handler: h, Deps: deps}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := m.Deps.protected(rg)
	{
		auth.GET("/notifications", m.Handler.List)
		auth.GET("/notifications/unread-count", m.Handler.UnreadCount)
		auth.POST("/notifications/read-all", m.Handler.MarkAllRead)
		auth.PATCH("/notifications/:id/read", m.Handler.MarkRead)
		auth.DELETE("/notifications/:id", m.Handler.Delete)
		auth.PATCH("/notification-groups/:id/read", m.Handler.MarkGroupRead)
		auth.DELETE("/notification-groups/:id", m.Handler.DeleteGroup)
	}
}
