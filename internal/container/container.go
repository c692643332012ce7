package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/config"
	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/domain/repository"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

// Infra is the set of clients opened at startup. Only Config, Logger and
// Store are required; a nil client turns its feature off.
type Infra struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  repository.Store
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher
	ES     *elasticsearch.Client
	GCS    *storage.Client
}

// Container holds the constructed components of one process.
// It replaces package-level singletons: everything is passed explicitly.
type Container struct {
	Infra
	JWT      *helpers.JWTManager
	Notifier application.Notifier

	Users         *application.UserService
	Events        *application.EventService
	Registrations *application.RegistrationService
	Notifications *application.NotificationService
	Social        *application.SocialService
}

// New wires the services on top of in.
func New(in Infra) *Container {
	cfg := in.Config
	c := &Container{
		Infra: in,
		JWT:   helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
	}

	c.Notifications = application.NewNotificationService(in.Store.Notifications(), in.Logger, cfg.NotificationGroupWindow, cfg.NotificationListLimit)
	c.Notifier = c.Notifications
	if cfg.NotifyAsync && in.Rabbit != nil {
		c.Notifier = application.NewQueueNotifier(in.Rabbit, c.Notifications, in.Logger)
	}

	var index application.EventIndex
	if cfg.SearchEnabled && in.ES != nil {
		index = application.NewESEventIndex(in.ES, cfg.ESEventsIndex)
	}
	var media application.MediaStore
	if cfg.MediaEnabled && in.GCS != nil && cfg.GCSBucket != "" {
		media = application.NewGCSMedia(in.GCS, cfg.GCSBucket)
	}

	st := in.Store
	c.Users = application.NewUserService(st.Users(), c.JWT, in.Redis, in.Logger)
	c.Events = application.NewEventService(st.Events(), st.Users(), c.Notifier, index, media, in.Logger)
	c.Registrations = application.NewRegistrationService(st.Events(), st.Registrations(), st.Users(), c.Notifier, in.Logger)
	c.Social = application.NewSocialService(st.Events(), st.Registrations(), st.Posts(), st.Users(), c.Notifier, in.Logger)
	return c
}

// Close releases every client the container holds.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil && c.Logger != nil {
			c.Logger.WithError(err).Warn("close store failed")
		}
	}
}
