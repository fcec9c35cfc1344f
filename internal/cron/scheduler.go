package cron

import (
	"fmt"
	"time"

	"github.com/anpos/pos-backend/pkg/config"
	"github.com/anpos/pos-backend/pkg/logger"
	"github.com/anpos/pos-backend/pkg/metrics"
	"github.com/anpos/pos-backend/pkg/redis"
)

// SchedulerParams wire the expired cart scheduler shared by the api and
// cron-worker binaries. Redis is optional.
type SchedulerParams struct {
	Logger  *logger.Logger
	Carts   cartSweeper
	Cart    config.CartConfig
	Redis   *redis.Client
	Metrics *metrics.CronJobMetrics
	LockTTL time.Duration
}

// NewCartExpiryScheduler registers the cart-expiry job behind a lock scoped
// to the store. Without Redis the lock only guards the current process.
func NewCartExpiryScheduler(params SchedulerParams) (*Service, error) {
	job, err := NewCartExpiryJob(CartExpiryJobParams{
		Logger:     params.Logger,
		Carts:      params.Carts,
		TTLMinutes: params.Cart.TTLMinutes,
	})
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(job)
	if err != nil {
		return nil, err
	}

	var lock Lock = NewLocalLock()
	if params.Redis != nil {
		rl, err := NewRedisLock(params.Redis, params.Redis.LockKey(CartExpiryJobName, params.Cart.StoreID), params.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("cart expiry lock: %w", err)
		}
		lock = rl
	}

	return NewService(ServiceParams{
		Logger:   params.Logger,
		Registry: registry,
		Lock:     lock,
		Metrics:  params.Metrics,
		Interval: params.Cart.CleanupInterval,
	})
}
