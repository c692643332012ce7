package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
)

// EventModule wires the event catalog and moderation routes.
type EventModule struct {
	Handler *handlers.EventHandler
	Deps    Deps
}

func NewEventModule(h *handlers.EventHandler, deps Deps) *EventModule {
	return &EventModule{Handler: h, Deps: deps}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	auth := m.Deps.protected(rg)
	{
		auth.GET("/events", m.Handler.List)
		auth.POST("/events", m.Handler.Create)
		auth.GET("/events/:id", m.Handler.Get)
		auth.PATCH("/events/:id", m.Handler.Update)
		auth.DELETE("/events/:id", m.Handler.Delete)
		auth.PATCH("/events/:id/approve", m.Handler.Approve)
		auth.PATCH("/events/:id/reject", m.Handler.Reject)
		auth.POST("/events/:id/image", m.Handler.UploadImage)

		auth.GET("/me/events", m.Handler.ListMine)
		auth.GET("/admin/events/pending", m.Handler.ListPending)
		auth.GET("/search/events", m.Handler.Search)
	}
}
