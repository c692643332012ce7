package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// Authenticator resolves an access token to the current account.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

// Auth accepts the access token from the access_token cookie or an
// Authorization: Bearer header and stores the principal in the context.
// Failures other than a rejected token are logged and answered with 500.
func Auth(users Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.Authenticate(c.Request.Context(), AccessToken(c))
		if err != nil {
			if errors.Is(err, application.ErrUnauthenticated) {
				response.Error(c, http.StatusUnauthorized, "unauthenticated", application.Reason(err), nil)
				return
			}
			if logger != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"request_id": c.GetString("request_id"),
					"path":       c.FullPath(),
				}).Error("authenticate failed")
			}
			response.Error(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxPrincipalKey, application.PrincipalOf(u))
		c.Next()
	}
}

// AccessToken returns the bearer token of the request, cookie first.
func AccessToken(c *gin.Context) string {
	if tok, err := c.Cookie("access_token"); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Principal returns the principal set by Auth, nil on public routes.
func Principal(c *gin.Context) *access.Principal {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*access.Principal)
	return p
}
