package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

const maxImageBytes = 5 << 20

type EventHandler struct {
	Svc    *application.EventService
	Logger *logrus.Logger
}

func NewEventHandler(svc *application.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Svc: svc, Logger: logger}
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,notblank,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"required,notblank,max=300"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}

type updateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,notblank,max=300"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,notblank"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *EventHandler) now() time.Time { return h.Svc.Now().UTC() }

func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), middleware.Principal(c), application.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toEventView(e, h.now()), "event created", nil)
}

func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e, h.now()), "event", nil)
}

// List returns the public catalog of APPROVED events.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Svc.ListApproved(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventViews(events, h.now()), "events", map[string]any{"count": len(events)})
}

func (h *EventHandler) ListMine(c *gin.Context) {
	events, err := h.Svc.ListMine(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventViews(events, h.now()), "my events", map[string]any{"count": len(events)})
}

func (h *EventHandler) ListPending(c *gin.Context) {
	events, err := h.Svc.ListPending(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventViews(events, h.now()), "pending events", map[string]any{"count": len(events)})
}

func (h *EventHandler) Update(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), middleware.Principal(c), c.Param("id"), application.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e, h.now()), "event updated", nil)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "event deleted", nil)
}

func (h *EventHandler) Approve(c *gin.Context) {
	e, err := h.Svc.Approve(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e, h.now()), "event approved", nil)
}

func (h *EventHandler) Reject(c *gin.Context) {
	e, err := h.Svc.Reject(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e, h.now()), "event rejected", nil)
}

// UploadImage accepts a multipart "image" field.
func (h *EventHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "validation_error", "image is required", nil)
		return
	}
	if fh.Size > maxImageBytes {
		response.Error(c, http.StatusBadRequest, "validation_error", "image must be at most 5MB", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	e, err := h.Svc.UploadImage(c.Request.Context(), middleware.Principal(c), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e, h.now()), "image uploaded", nil)
}

func (h *EventHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	events, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventViews(events, h.now()), "search results", map[string]any{"count": len(events), "q": q.Q})
}
