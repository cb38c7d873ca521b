// internal/agent/join.go
package agent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// awaitTogether runs a page-changing trigger and the wait for its
// navigation concurrently and returns once both have finished. The
// navigation listener is armed before the trigger starts. The first failure
// cancels the other task and is the one returned.
func awaitTogether(ctx context.Context, page Page, trigger func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	wait := page.ExpectNavigation(gctx)
	g.Go(wait)
	g.Go(func() error { return trigger(gctx) })
	return g.Wait()
}
