package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"securebase-billing/internal/client"
	"securebase-billing/internal/config"
	"securebase-billing/internal/logger"
	"securebase-billing/internal/model"
	"securebase-billing/internal/repository"
	"securebase-billing/internal/server"
	"securebase-billing/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Log)
	log.WithField("environment", cfg.Environment.Name).Info("starting securebase billing")

	fulfillmentRepo, webhookEventRepo, err := initStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("init store")
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe, log)
	notifierClient := client.NewNotifierClient(&cfg.Notify)
	if cfg.Notify.WebhookURL == "" {
		log.Warn("NOTIFY_WEBHOOK_URL is empty, sale notifications are disabled")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET is empty, every webhook will be rejected")
	}

	checkoutService := service.NewCheckoutService(stripeClient, log)
	fulfillmentService := service.NewFulfillmentService(
		fulfillmentRepo,
		webhookEventRepo,
		notifierClient,
		model.ParsePlan(cfg.Checkout.DefaultPlan, model.PlanStandard),
		cfg.Store.Timeout,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, checkoutService, fulfillmentService, stripeClient, log)

	log.Info("Starting HTTP server on ", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	fulfillmentService.Wait()
	log.Info("shutdown complete")
}

func initStore(cfg *config.Config, log *logrus.Logger) (repository.FulfillmentRepository, repository.WebhookEventRepository, error) {
	switch cfg.Store.Driver {
	case "dynamodb":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		defer cancel()

		ddb, err := client.InitDynamoDBClient(ctx, &cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{
			"region": cfg.DynamoDB.Region,
			"table":  cfg.DynamoDB.FulfillmentTable,
		}).Info("using dynamodb store")

		return repository.NewDynamoFulfillmentRepository(ddb, cfg.DynamoDB.FulfillmentTable),
			repository.NewDynamoWebhookEventRepository(ddb, cfg.DynamoDB.WebhookEventTable),
			nil
	case "gorm", "":
		db, err := client.InitGormClient(cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("driver", cfg.DBDriver).Info("using relational store")

		return repository.NewFulfillmentRepository(db), repository.NewWebhookEventRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
