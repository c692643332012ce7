package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
	"github.com/oksasatya/volunteer-hub/pkg/response"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,notblank,max=120"`
	Role     string `json:"role" binding:"omitempty,signup_role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenView struct {
	User             userView  `json:"user"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserView(u), "account created", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, tokens(u, pair), "login successful", nil)
}

// Refresh takes the refresh token from its cookie, or from the JSON body.
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		refresh = req.RefreshToken
	}
	if refresh == "" {
		response.Error(c, http.StatusUnauthorized, "unauthenticated", "missing refresh token", nil)
		return
	}
	u, pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, tokens(u, pair), "token refreshed", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile", nil)
}

// List returns every account. ADMIN only.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{"count": len(out)})
}

// ToggleStatus bans or unbans the user in :id.
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	u, err := h.Svc.ToggleStatus(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "user status updated", nil)
}

func tokens(u *entity.User, pair application.TokenPair) tokenView {
	return tokenView{
		User:             toUserView(u),
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessTokenExpiry,
		RefreshExpiresAt: pair.RefreshTokenExpiry,
	}
}
