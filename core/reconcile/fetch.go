package reconcile

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sources bundles the two endpoints compared in a run.
type Sources struct {
	// Primary is the reference endpoint.
	Primary Endpoint

	// Secondary is the endpoint checked against the primary.
	Secondary Endpoint

	// Timeout bounds each FetchBoth call. Zero disables the timeout.
	Timeout time.Duration
}

// FetchBoth runs fetch against both endpoints concurrently and waits for both.
// The first error cancels the other branch and is returned. There is no retry.
func FetchBoth[T any](ctx context.Context, s Sources, fetch func(context.Context, Endpoint) (T, error)) (T, T, error) {
	var a, b T

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = fetch(gctx, s.Primary)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = fetch(gctx, s.Secondary)
		return err
	})

	if err := g.Wait(); err != nil {
		var zero T
		return zero, zero, err
	}
	return a, b, nil
}
