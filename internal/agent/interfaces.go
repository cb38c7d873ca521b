// internal/agent/interfaces.go
package agent

import (
	"context"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// Page is the browser tab the flows drive. Implementations report a
// locator that matches nothing with an error wrapping
// humanoid.ErrElementNotFound.
type Page interface {
	// Navigate loads url and returns once it has loaded.
	Navigate(ctx context.Context, url string) error
	// ExpectNavigation starts listening for the next page load and returns
	// a function that blocks until that load completes. The listener is in
	// place when ExpectNavigation returns.
	ExpectNavigation(ctx context.Context) func() error
	// Snapshot captures the current location and markup.
	Snapshot(ctx context.Context) (*schemas.PageSnapshot, error)
	// Fill types text into the field matching selector.
	Fill(ctx context.Context, selector, text string) error
	// SimulateClick clicks the element matching selector with a humanoid pointer.
	SimulateClick(ctx context.Context, selector string) error
}
