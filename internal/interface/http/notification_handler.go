package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

type listNotificationsQuery struct {
	Grouped bool `form:"grouped"`
}

// List returns the caller's notifications newest first, folded into groups
// when ?grouped=true.
func (h *NotificationHandler) List(c *gin.Context) {
	var q listNotificationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if q.Grouped {
		groups, err := h.Svc.Grouped(c.Request.Context(), uid)
		if err != nil {
			fail(c, h.Logger, err)
			return
		}
		response.Success(c, http.StatusOK, groups, "notifications", map[string]any{"count": len(groups), "grouped": true})
		return
	}
	ns, err := h.Svc.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNotificationViews(ns), "notifications", map[string]any{"count": len(ns), "grouped": false})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.Svc.UnreadCount(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]int{"unread": n}, "unread count", nil)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Svc.MarkRead(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"id": c.Param("id"), "is_read": true}, "notification read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.Svc.MarkAllRead(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]int64{"updated": n}, "notifications read", nil)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "notification deleted", nil)
}

func (h *NotificationHandler) MarkGroupRead(c *gin.Context) {
	g, err := h.Svc.MarkGroupRead(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, g, "notification group read", nil)
}

func (h *NotificationHandler) DeleteGroup(c *gin.Context) {
	g, err := h.Svc.DeleteGroup(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, map[string]any{"deleted": g.MemberIDs}, "notification group deleted", nil)
}
