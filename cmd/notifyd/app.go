package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/winnyineza/RindwaApp-sub000/internal/api"
	"github.com/winnyineza/RindwaApp-sub000/internal/config"
	"github.com/winnyineza/RindwaApp-sub000/internal/notifier"
	"github.com/winnyineza/RindwaApp-sub000/internal/providers"
	"github.com/winnyineza/RindwaApp-sub000/internal/registry"
	"github.com/winnyineza/RindwaApp-sub000/internal/sweeper"
	"github.com/winnyineza/RindwaApp-sub000/internal/tracker"
)

// app holds the wired service components.
type app struct {
	registry   *registry.Registry
	tracker    *tracker.Tracker
	dispatcher *notifier.Dispatcher
	sweeper    *sweeper.Sweeper
	router     http.Handler
	closers    []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	a.registry = registry.NewWithOptions(func(event registry.ChangeEvent) {
		logger.Debug("Subscription change",
			zap.String("type", event.Type),
			zap.String("subscription_id", event.Subscription.ID),
			zap.String("incident_id", event.Subscription.IncidentID),
		)
	}, registry.Options{DefaultTimezone: cfg.DefaultTimezone})

	ledger, err := a.openLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.tracker = tracker.New(ledger, a.registry, nil, logger)

	senders := notifier.Senders{
		Push: providers.NewPushClient(providers.PushConfig{
			Endpoint:  cfg.PushEndpoint,
			ServerKey: cfg.PushServerKey,
			Timeout:   cfg.SendTimeout,
		}, logger),
		Email: providers.NewEmailClient(providers.EmailConfig{
			Endpoint: cfg.EmailEndpoint,
			APIKey:   cfg.EmailAPIKey,
			From:     cfg.EmailFrom,
			Timeout:  cfg.SendTimeout,
		}, logger),
		SMS: providers.NewSMSClient(providers.SMSConfig{
			Endpoint:   cfg.SMSEndpoint,
			AccountSID: cfg.SMSAccountSID,
			AuthToken:  cfg.SMSAuthToken,
			From:       cfg.SMSFrom,
			Timeout:    cfg.SendTimeout,
		}, logger),
	}
	a.dispatcher = notifier.NewDispatcher(a.registry, senders, a.tracker, logger, notifier.DispatcherOptions{
		Workers:       cfg.Workers,
		SendTimeout:   cfg.SendTimeout,
		RatePerSecond: cfg.Rates(),
	})

	a.sweeper = sweeper.New(a.registry, a.tracker, cfg.Retention, nil, logger)

	handler := api.NewHandler(a.registry, a.tracker, a.dispatcher, logger)
	a.router = api.NewRouter(handler, promhttp.Handler())
	return a, nil
}

func (a *app) openLedger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (tracker.Ledger, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory delivery ledger")
		return tracker.NewMemoryLedger(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	a.closers = append(a.closers, client.Close)
	logger.Info("Using Redis delivery ledger", zap.String("addr", cfg.RedisAddr))
	return tracker.NewRedisLedger(client, tracker.DefaultRedisKey, logger), nil
}

// Close releases external connections.
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
}
