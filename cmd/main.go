package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/homesignal/backend/internal/clients/smtp"
	"github.com/homesignal/backend/internal/config"
	"github.com/homesignal/backend/internal/events"
	"github.com/homesignal/backend/internal/logger"
	"github.com/homesignal/backend/internal/metrics"
	"github.com/homesignal/backend/internal/repositories"
	"github.com/homesignal/backend/internal/services"
	log "github.com/sirupsen/logrus"
)

func runSchedulers(cfg *config.Config, searches *repositories.SavedSearches,
	properties *repositories.Properties, notifications *repositories.Notifications,
	bus EventBus.Bus) (stop func()) {

	mailer := smtp.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
		cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.BaseURL)
	if cfg.SMTP.MaxRequestsPerSecond > 0 {
		mailer.SetRateLimit(cfg.SMTP.MaxRequestsPerSecond)
	}

	probe := services.NewMatchProbe(properties)
	minter := services.NewNotificationMinter(bus, notifications)

	matcher, err := services.NewMatchingScheduler(searches, probe, minter, services.MatchingSchedulerOptions{
		BatchSize:  cfg.Matcher.BatchSize,
		BatchDelay: cfg.Matcher.BatchDelay,
		Timezone:   cfg.Matcher.Timezone,
		RunOnInit:  cfg.Matcher.RunOnInit,
	})
	if err != nil {
		log.Fatalf("can't create matching scheduler: %v", err)
	}

	delivery, err := services.NewDeliveryScheduler(notifications, mailer, services.DeliverySchedulerOptions{
		BatchSize: cfg.Delivery.BatchSize,
		SendDelay: cfg.Delivery.SendDelay,
		Timezone:  cfg.Delivery.Timezone,
		RunOnInit: cfg.Delivery.RunOnInit,
	})
	if err != nil {
		log.Fatalf("can't create delivery scheduler: %v", err)
	}

	if err = matcher.Start(cfg.Matcher.Cron); err != nil {
		log.Fatalf("can't start matching scheduler: %v", err)
	}
	if err = delivery.Start(cfg.Delivery.Cron); err != nil {
		log.Fatalf("can't start delivery scheduler: %v", err)
	}

	return func() {
		matcher.Stop()
		delivery.Stop()
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	searches := repositories.NewSavedSearchRepository(dbContext.DB)
	properties := repositories.NewPropertiesRepository(dbContext.DB)
	notifications := repositories.NewNotificationsRepository(dbContext.DB)

	bus := EventBus.New()
	err = bus.Subscribe(events.NotificationMintedTopic, func(event events.NotificationMinted) {
		metrics.MintedNotificationsCounter.Inc()
		log.Infof("minted notification %v for saved search %v of user %v",
			event.NotificationID, event.SearchID, event.UserID)
	})
	if err != nil {
		log.Fatalf("can't subscribe to event bus: %v", err)
	}

	stopSchedulers := runSchedulers(cfg, searches, properties, notifications, bus)

	<-ctx.Done()

	log.Info("Shutting down services...")
	stopSchedulers()
	log.Info("Services stopped.")
}
