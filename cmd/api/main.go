package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/anpos/pos-backend/api/controllers"
	"github.com/anpos/pos-backend/api/routes"
	"github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/internal/catalog"
	"github.com/anpos/pos-backend/internal/cron"
	"github.com/anpos/pos-backend/internal/operators"
	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/db"
	"github.com/anpos/pos-backend/pkg/instance"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/metrics"
	"github.com/anpos/pos-backend/pkg/migrate"
	"github.com/anpos/pos-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		StoreID:     cfg.Cart.StoreID,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	// Redis is optional on a standalone terminal.
	var redisClient *redis.Client
	var redisPinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		redisPinger = redisClient
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Logger:   logg,
		Observer: metrics.NewCartMetrics(registry),
		VATRate:  cfg.Cart.VATRate,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	operatorService, err := operators.NewService(operators.ServiceParams{
		Repo:        operators.NewRepository(dbClient.DB()),
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		return err
	}
	if err := operatorService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		return err
	}

	schedulerDone := make(chan error, 1)
	if cfg.FeatureFlags.InProcessCleanup {
		scheduler, err := cron.NewCartExpiryScheduler(cron.SchedulerParams{
			Logger:  logg,
			Carts:   cartService,
			Cart:    cfg.Cart,
			Redis:   redisClient,
			Metrics: metrics.NewCronJobMetrics(registry),
		})
		if err != nil {
			return err
		}
		go func() {
			schedulerDone <- scheduler.Run(ctx)
		}()
	} else {
		schedulerDone <- nil
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			cartService,
			catalogService,
			operatorService,
			metrics.NewHTTPMetrics(registry),
			registry,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"store_id": cfg.Cart.StoreID,
		"driver":   dbClient.Dialect(),
		"instance": instance.ID(),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			return multierr.Append(err, ignoreCanceled(<-schedulerDone))
		}
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = multierr.Append(server.Shutdown(shutdownCtx), ignoreCanceled(<-schedulerDone))
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
