package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
)

type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
	Deps    Deps
}

func NewRegistrationModule(h *handlers.RegistrationHandler, deps Deps) *RegistrationModule {
	return &RegistrationModule{Handler: h, Deps: deps}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	auth := m.Deps.protected(rg)
	{
		auth.POST("/events/:id/register", m.Handler.Register)
		auth.DELETE("/events/:id/register", m.Handler.Cancel)
		auth.GET("/events/:id/registrations", m.Handler.ListForEvent)
		auth.PATCH("/events/:id/registrations/:userId/approve", m.Handler.Approve)
		auth.PATCH("/events/:id/registrations/:userId/reject", m.Handler.Reject)
		auth.PATCH("/events/:id/registrations/:userId/attended", m.Handler.MarkAttended)
		auth.GET("/me/registrations", m.Handler.ListMine)
	}
}
