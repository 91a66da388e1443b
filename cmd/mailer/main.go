package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/arturffsantos/gympoint/internal/mail"
	"github.com/arturffsantos/gympoint/pkg/config"
	"github.com/arturffsantos/gympoint/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	consumer, err := mail.NewConsumer(cfg.Broker, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to broker", "error", err)
	}
	defer consumer.Close()

	sender := mail.NewSender(cfg.SMTP, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.Sugar().Infow("mailer worker starting", "queue", cfg.Broker.MailQueue)
	if err := consumer.Run(ctx, sender.HandleDelivery); err != nil && !errors.Is(err, context.Canceled) {
		logr.Sugar().Fatalw("mailer worker stopped", "error", err)
	}
	logr.Sugar().Infow("mailer worker shut down")
}
