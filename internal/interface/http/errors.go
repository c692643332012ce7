package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/pkg/response"
	"github.com/oksasatya/volunteer-hub/pkg/validation"
)

var classes = []struct {
	err    error
	status int
	code   string
}{
	{application.ErrValidation, http.StatusBadRequest, "validation_error"},
	{application.ErrInvalidState, http.StatusBadRequest, "invalid_state"},
	{application.ErrAlreadyRegistered, http.StatusBadRequest, "already_registered"},
	{application.ErrEventNotApproved, http.StatusBadRequest, "event_not_approved"},
	{application.ErrAlreadyLiked, http.StatusBadRequest, "already_liked"},
	{application.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{application.ErrForbidden, http.StatusForbidden, "forbidden"},
	{application.ErrNotFound, http.StatusNotFound, "not_found"},
	{application.ErrUnavailable, http.StatusInternalServerError, "unavailable"},
}

// Classify maps a service error to its HTTP status and machine code.
func Classify(err error) (int, string) {
	for _, c := range classes {
		if errors.Is(err, c.err) {
			return c.status, c.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// fail writes err as an error envelope. Unclassified errors are logged and
// reported with a generic message.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, code := Classify(err)
	if code == "internal_error" {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error(c, status, code, "internal server error", nil)
		return
	}
	response.Error(c, status, code, application.Reason(err), nil)
}

// invalid reports a binding error as a validation error with field details.
func invalid(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	response.Error(c, http.StatusBadRequest, "validation_error", validation.Summary(details), details)
}
