package router

import (
	"github.com/oksasatya/volunteer-hub/internal/container"
	handlers "github.com/oksasatya/volunteer-hub/internal/interface/http"
	"github.com/oksasatya/volunteer-hub/internal/interface/middleware"
	"github.com/oksasatya/volunteer-hub/internal/router/modules"
)

// InitModules builds the handlers from c and registers every module.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	deps := modules.Deps{
		Redis: c.Redis,
		Auth:  middleware.Auth(c.Users, c.Logger),
	}

	r.Add(modules.NewAuthModule(handlers.NewUserHandler(c.Users, c.Logger, cfg.CookieDomain, cfg.CookieSecure), deps))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(c.Events, c.Logger), deps))
	r.Add(modules.NewRegistrationModule(handlers.NewRegistrationHandler(c.Registrations, c.Logger), deps))
	r.Add(modules.NewSocialModule(handlers.NewSocialHandler(c.Social, c.Logger), deps))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(c.Notifications, c.Logger), deps))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(deps))
	}
}
