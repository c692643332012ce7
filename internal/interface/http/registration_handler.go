package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

type RegistrationHandler struct {
	Svc    *application.RegistrationService
	Logger *logrus.Logger
}

func NewRegistrationHandler(svc *application.RegistrationService, logger *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{Svc: svc, Logger: logger}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	reg, err := h.Svc.Register(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toRegistrationView(reg), "registered", nil)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	if err := h.Svc.Cancel(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"cancelled": true}, "registration cancelled", nil)
}

type decideFunc func(*gin.Context, string, string) (*entity.Registration, error)

func (h *RegistrationHandler) decide(c *gin.Context, fn decideFunc, message string) {
	reg, err := fn(c, c.Param("id"), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRegistrationView(reg), message, nil)
}

func (h *RegistrationHandler) Approve(c *gin.Context) {
	h.decide(c, func(c *gin.Context, eventID, userID string) (*entity.Registration, error) {
		return h.Svc.Approve(c.Request.Context(), middleware.Principal(c), eventID, userID)
	}, "registration approved")
}

func (h *RegistrationHandler) Reject(c *gin.Context) {
	h.decide(c, func(c *gin.Context, eventID, userID string) (*entity.Registration, error) {
		return h.Svc.Reject(c.Request.Context(), middleware.Principal(c), eventID, userID)
	}, "registration rejected")
}

func (h *RegistrationHandler) MarkAttended(c *gin.Context) {
	h.decide(c, func(c *gin.Context, eventID, userID string) (*entity.Registration, error) {
		return h.Svc.MarkAttended(c.Request.Context(), middleware.Principal(c), eventID, userID)
	}, "attendance confirmed")
}

func (h *RegistrationHandler) ListForEvent(c *gin.Context) {
	regs, err := h.Svc.ListForEvent(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRegistrationViews(regs), "registrations", map[string]any{"count": len(regs)})
}

func (h *RegistrationHandler) ListMine(c *gin.Context) {
	regs, err := h.Svc.ListMine(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toRegistrationViews(regs), "my registrations", map[string]any{"count": len(regs)})
}
