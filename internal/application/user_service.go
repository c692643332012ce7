package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/internal/domain/access"
	"github.com/oksasatya/volunteer-hub/internal/domain/entity"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
	"github.com/oksasatya/volunteer-hub/pkg/validation"
)

// UserService handles accounts: sign-up, token sessions and admin bans.
type UserService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Session is the server-side record of the live login of a user. Only the
// latest session is valid; logout and bans delete it.
type Session struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"sid"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     entity.Role
}

const minPasswordLength = 8

func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger}
}

// Signup creates an active VOLUNTEER or EVENT_MANAGER account. Admins are
// only provisioned by the seed command.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if !validation.Email(email) {
		return nil, validationf("email is invalid")
	}
	if name == "" {
		return nil, validationf("name is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVolunteer
	}
	if role != entity.RoleVolunteer && role != entity.RoleEventManager {
		return nil, validationf("role must be VOLUNTEER or EVENT_MANAGER")
	}
	return s.CreateUser(ctx, email, in.Password, name, role)
}

// CreateUser hashes password and stores an active account with any role.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string, role entity.Role) (*entity.User, error) {
	if !role.Valid() {
		return nil, validationf("unknown role %q", role)
	}
	if !validation.Email(email) {
		return nil, validationf("email is invalid")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name, Role: role, Active: true}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, validationf("email is already registered")
		}
		s.logError(err, "create user failed", logrus.Fields{"email": email})
		return nil, err
	}
	return u, nil
}

// Login checks credentials and opens a new session.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, TokenPair{}, fmt.Errorf("%w: %s", ErrUnauthenticated, access.ReasonInactive)
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session of a still-valid refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.activeUser(ctx, claims)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Authenticate resolves an access token to the current account. The account
// is loaded on every call so a ban applies to the very next request.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	}
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	}
	return s.activeUser(ctx, claims)
}

func (s *UserService) Logout(ctx context.Context, userID string) {
	s.dropSession(ctx, userID)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p *access.Principal) ([]*entity.User, error) {
	if err := denied(access.Authorize(p, access.ListUsers{})); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

// ToggleStatus bans or unbans targetID. A ban also ends the target's session.
func (s *UserService) ToggleStatus(ctx context.Context, p *access.Principal, targetID string) (*entity.User, error) {
	target, err := s.Repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	if err := denied(access.Authorize(p, access.ToggleUserBan{Target: target})); err != nil {
		return nil, err
	}
	target.Active = !target.Active
	if err := s.Repo.SetActive(ctx, target.ID, target.Active); err != nil {
		return nil, lookup(err, "user")
	}
	if !target.Active {
		s.dropSession(ctx, target.ID)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"admin_id": p.UserID, "user_id": target.ID, "active": target.Active}).Info("user status toggled")
	}
	return target, nil
}

// PrincipalOf builds the guard principal for u.
func PrincipalOf(u *entity.User) *access.Principal {
	if u == nil {
		return nil
	}
	return &access.Principal{UserID: u.ID, Role: u.Role, Active: u.Active}
}

func (s *UserService) activeUser(ctx context.Context, claims *helpers.Claims) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, access.ReasonInactive)
	}
	if s.Redis != nil {
		var sess Session
		ok, rErr := helpers.RedisGetJSON(ctx, s.Redis, helpers.SessionKey(u.ID), &sess)
		if rErr != nil {
			s.logError(rErr, "read session failed", logrus.Fields{"user_id": u.ID})
			return nil, rErr
		}
		if !ok || sess.SessionID != claims.SessionID {
			return nil, fmt.Errorf("%w: session expired", ErrUnauthenticated)
		}
	}
	return u, nil
}

func (s *UserService) issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	accessTok, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Role.String(), sid)
	if err != nil {
		s.logError(err, "generate access token failed", logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, u.Role.String(), sid)
	if err != nil {
		s.logError(err, "generate refresh token failed", logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	if s.Redis != nil {
		sess := Session{UserID: u.ID, SessionID: sid, Role: u.Role.String(), CreatedAt: time.Now().UTC()}
		if err := helpers.RedisSetJSON(ctx, s.Redis, helpers.SessionKey(u.ID), sess, s.JWT.RefreshTTL); err != nil {
			s.logError(err, "store session failed", logrus.Fields{"user_id": u.ID})
			return TokenPair{}, err
		}
	}
	return TokenPair{AccessToken: accessTok, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) dropSession(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("drop session failed")
	}
}

func (s *UserService) logError(err error, msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(fields).Error(msg)
	}
}
