package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

type SocialHandler struct {
	Svc    *application.SocialService
	Logger *logrus.Logger
}

func NewSocialHandler(svc *application.SocialService, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Svc: svc, Logger: logger}
}

type contentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000"`
}

func (h *SocialHandler) ListPosts(c *gin.Context) {
	posts, err := h.Svc.ListPosts(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostView(p))
	}
	response.Success(c, http.StatusOK, out, "posts", map[string]any{"count": len(out)})
}

func (h *SocialHandler) CreatePost(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Content)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPostView(p), "post created", nil)
}

func (h *SocialHandler) ListComments(c *gin.Context) {
	comments, err := h.Svc.ListComments(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentView(cm))
	}
	response.Success(c, http.StatusOK, out, "comments", map[string]any{"count": len(out)})
}

func (h *SocialHandler) AddComment(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Content)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toCommentView(cm), "comment added", nil)
}

func (h *SocialHandler) Like(c *gin.Context) {
	p, err := h.Svc.Like(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostView(p), "post liked", nil)
}

func (h *SocialHandler) Unlike(c *gin.Context) {
	p, err := h.Svc.Unlike(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostView(p), "like removed", nil)
}
