package cron

import (
	"context"
	"fmt"

	"github.com/anpos/pos-backend/pkg/logger"
)

// CartExpiryJobName identifies the expired cart sweep.
const CartExpiryJobName = "cart-expiry"

type cartSweeper interface {
	CleanupExpired(ctx context.Context, ttlMinutes int) (int64, error)
}

// CartExpiryJobParams configure the expired cart sweep.
type CartExpiryJobParams struct {
	Logger     *logger.Logger
	Carts      cartSweeper
	TTLMinutes int
}

type cartExpiryJob struct {
	logg       *logger.Logger
	carts      cartSweeper
	ttlMinutes int
}

// NewCartExpiryJob builds the job that removes active carts older than the TTL.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.TTLMinutes < 0 {
		return nil, fmt.Errorf("cart ttl must not be negative")
	}
	return &cartExpiryJob{
		logg:       params.Logger,
		carts:      params.Carts,
		ttlMinutes: params.TTLMinutes,
	}, nil
}

func (j *cartExpiryJob) Name() string { return CartExpiryJobName }

func (j *cartExpiryJob) Run(ctx context.Context) error {
	deleted, err := j.carts.CleanupExpired(ctx, j.ttlMinutes)
	if err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"ttl_minutes": j.ttlMinutes,
		"deleted":     deleted,
	})
	j.logg.Info(ctx, "cart expiry sweep finished")
	return nil
}
