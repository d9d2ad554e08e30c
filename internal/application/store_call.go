package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"farmaid-portal/internal/domain"
)

const (
	storeCallTimeout = 5 * time.Second
	storeMaxRetries  = 2
)

func newStorePolicy(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = time.Second
	return backoff.WithContext(backoff.WithMaxRetries(bo, storeMaxRetries), ctx)
}

// callStore runs one store operation with a per-attempt timeout and
// bounded retries. Deterministic domain errors pass through untouched;
// anything else is classified as ErrTimeout or ErrStore.
func callStore(ctx context.Context, op func(ctx context.Context) error) error {
	err := backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, storeCallTimeout)
		defer cancel()
		if err := op(attemptCtx); err != nil {
			if !domain.Transient(err) || errors.Is(err, context.Canceled) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, newStorePolicy(ctx))
	return classify(err)
}

// fetchStore is callStore for operations that return a value.
func fetchStore[T any](ctx context.Context, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := callStore(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case !domain.Transient(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
}

func requireAuthenticated(session domain.Session) error {
	if !session.Identity.Authenticated() {
		return domain.ErrPermissionDenied
	}
	return nil
}

func requireAdmin(session domain.Session) error {
	if err := requireAuthenticated(session); err != nil {
		return err
	}
	if !session.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	return nil
}
