package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
)

// SocialModule wires event discussion: posts, comments and likes.
type SocialModule struct {
	Handler *handlers.SocialHandler
	Deps    Deps
}

func NewSocialModule(h *handlers.SocialHandler, deps Deps) *SocialModule {
	return &SocialModule{Handler: h, Deps: deps}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	auth := m.Deps.protected(rg)
	{
		auth.GET("/events/:id/posts", m.Handler.ListPosts)
		auth.POST("/events/:id/posts", m.Handler.CreatePost)
		auth.GET("/posts/:id/comments", m.Handler.ListComments)
		auth.POST("/posts/:id/comments", m.Handler.AddComment)
		auth.POST("/posts/:id/like", m.Handler.Like)
		auth.DELETE("/posts/:id/like", m.Handler.Unlike)
	}
}
