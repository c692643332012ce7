package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/volunteer-hub/config"
	"github.com/oksasatya/volunteer-hub/internal/application"
	"github.com/oksasatya/volunteer-hub/internal/container"
	"github.com/oksasatya/volunteer-hub/pkg/helpers"
)

// The worker persists notification jobs published by the API when
// NOTIFY_ASYNC=true.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notification-worker", cfg.Env)
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotificationQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()
	notes := application.NewNotificationService(store.Notifications(), logger, cfg.NotificationGroupWindow, cfg.NotificationListLimit)

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQNotificationQueue, 16)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			job, err := application.DecodeNotificationJob(msg.Body)
			if err != nil {
				helpers.LogError(logger, "bad notification job", err, nil)
				_ = msg.Nack(false, false)
				continue
			}
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err = notes.EmitBulk(c, job.Recipients, job.Message)
			cancel()
			if err != nil {
				// Recipients that succeeded are stored already; redelivery
				// would duplicate them, so the job is dropped.
				helpers.LogError(logger, "emit notification job failed", err, logrus.Fields{"type": job.Message.Type, "recipients": len(job.Recipients)})
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	helpers.LogInfo(logger, "notification worker listening", logrus.Fields{"queue": cfg.RabbitMQNotificationQueue})
	<-ctx.Done()
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
