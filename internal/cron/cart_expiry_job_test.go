package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	ttls    []int
	deleted int64
	err     error
}

func (s *stubSweeper) CleanupExpired(_ context.Context, ttlMinutes int) (int64, error) {
	s.ttls = append(s.ttls, ttlMinutes)
	return s.deleted, s.err
}

func TestNewCartExpiryJobValidates(t *testing.T) {
	_, err := NewCartExpiryJob(CartExpiryJobParams{Carts: &stubSweeper{}})
	require.Error(t, err)
	_, err = NewCartExpiryJob(CartExpiryJobParams{Logger: testLogger()})
	require.Error(t, err)
	_, err = NewCartExpiryJob(CartExpiryJobParams{Logger: testLogger(), Carts: &stubSweeper{}, TTLMinutes: -5})
	require.Error(t, err)
}

func TestCartExpiryJobPassesTTL(t *testing.T) {
	sweeper := &stubSweeper{deleted: 2}
	job, err := NewCartExpiryJob(CartExpiryJobParams{Logger: testLogger(), Carts: sweeper, TTLMinutes: 720})
	require.NoError(t, err)

	assert.Equal(t, CartExpiryJobName, job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []int{720}, sweeper.ttls)
}

func TestCartExpiryJobPropagatesError(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db locked")}
	job, err := NewCartExpiryJob(CartExpiryJobParams{Logger: testLogger(), Carts: sweeper, TTLMinutes: 60})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
}

func TestCartExpiryJobSweepsThroughCronCycle(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	clock := now.Add(-3 * time.Hour)
	carts, err := cart.NewService(cart.ServiceParams{
		Repo:   cart.NewRepository(client.DB()),
		Tx:     client,
		Logger: testLogger(),
		Now:    func() time.Time { return clock },
	})
	require.NoError(t, err)

	parked, err := carts.Create(ctx, "parked")
	require.NoError(t, err)
	require.NoError(t, carts.Park(ctx, parked.ID, "parked"))
	stale, err := carts.Create(ctx, "stale")
	require.NoError(t, err)

	clock = now
	job, err := NewCartExpiryJob(CartExpiryJobParams{Logger: testLogger(), Carts: carts, TTLMinutes: 120})
	require.NoError(t, err)
	service := newTestService(t, NewLocalLock(), job)
	require.NoError(t, service.RunOnce(ctx))

	active, err := carts.ListActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active, "stale cart %d should be swept", stale.ID)

	parkedCarts, err := carts.ListParked(ctx)
	require.NoError(t, err)
	require.Len(t, parkedCarts, 1)
	assert.Equal(t, parked.ID, parkedCarts[0].ID)
}
