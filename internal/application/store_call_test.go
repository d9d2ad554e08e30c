package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmaid-portal/internal/domain"
)

func TestCallStore_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	err := callStore(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("throttled")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestCallStore_DoesNotRetryDomainErrors(t *testing.T) {
	attempts := 0
	err := callStore(context.Background(), func(ctx context.Context) error {
		attempts++
		return domain.ErrNotFound
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, attempts)
}

func TestCallStore_ExhaustedRetriesBecomeStoreError(t *testing.T) {
	attempts := 0
	err := callStore(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("connection refused")
	})
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Equal(t, 1+storeMaxRetries, attempts)
}

func TestCallStore_DeadlineSurfacesAsTimeout(t *testing.T) {
	err := callStore(context.Background(), func(ctx context.Context) error {
		return context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestCallStore_CancellationPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := callStore(ctx, func(ctx context.Context) error {
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchStore_ReturnsValue(t *testing.T) {
	got, err := fetchStore(context.Background(), func(ctx context.Context) (string, error) {
		return "value", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
