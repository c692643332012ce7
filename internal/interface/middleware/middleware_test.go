package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
)

type fakeAuth map[string]*entity.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: invalid or expired token", application.ErrUnauthenticated)
}

type brokenAuth struct{}

func (brokenAuth) Authenticate(context.Context, string) (*entity.User, error) {
	return nil, errors.New("redis: connection refused")
}

func newEngine(auth middleware.Authenticator) *gin.Engine {
	return newEngineWithLogger(auth, nil)
}

func newEngineWithLogger(auth middleware.Authenticator, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	r.GET("/me", middleware.Auth(auth, logger), middleware.RateLimit(nil, 1, time.Minute, middleware.KeyByUserID(), nil), func(c *gin.Context) {
		p := middleware.Principal(c)
		c.String(http.StatusOK, "%s %s %s", c.GetString(middleware.CtxUserIDKey), p.Role, c.GetString("real_ip"))
	})
	return r
}

func TestAuth(t *testing.T) {
	r := newEngine(fakeAuth{"tok": {ID: "u1", Role: entity.RoleVolunteer, Active: true}})

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer tok") }, http.StatusOK, "u1 VOLUNTEER 203.0.113.7"},
		{"lowercase scheme", func(req *http.Request) { req.Header.Set("Authorization", "bearer tok") }, http.StatusOK, "u1 VOLUNTEER 203.0.113.7"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok"}) }, http.StatusOK, "u1 VOLUNTEER 203.0.113.7"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"unknown", func(req *http.Request) { req.Header.Set("Authorization", "Bearer other") }, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Fatalf("body = %q, want %q", w.Body.String(), tc.body)
			}
		})
	}
}

func TestAuth_BackendFailureIsLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := newEngineWithLogger(brokenAuth{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	e := hook.LastEntry()
	if e == nil || e.Level != logrus.ErrorLevel {
		t.Fatalf("entries = %+v", hook.AllEntries())
	}
	if e.Data["path"] != "/me" || e.Data["request_id"] == "" || e.Data[logrus.ErrorKey] == nil {
		t.Fatalf("entry fields = %+v", e.Data)
	}
}

func TestRateLimitWithoutRedisIsOpen(t *testing.T) {
	r := newEngine(fakeAuth{"tok": {ID: "u1", Role: entity.RoleAdmin, Active: true}})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}
