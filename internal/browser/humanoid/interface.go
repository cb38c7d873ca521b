// internal/browser/humanoid/interface.go
package humanoid

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// ErrElementNotFound is returned (wrapped) when a selector resolves to no
// interactable element.
var ErrElementNotFound = errors.New("element not found")

// InteractionOptions configures a single humanoid action. A nil value means defaults.
type InteractionOptions struct {
	// HoldOverride fixes the press duration instead of sampling it.
	HoldOverride time.Duration
}

// Controller defines the high-level interface for human-like interactions.
// This is the interface implemented by the Humanoid struct itself.
type Controller interface {
	MoveTo(ctx context.Context, selector string, opts *InteractionOptions) error
	IntelligentClick(ctx context.Context, selector string, opts *InteractionOptions) error
	Type(ctx context.Context, text string) error
	Position() Vector2D
}

// Executor defines the low-level interface required by the Humanoid controller.
// GetElementGeometry must wrap ErrElementNotFound when the selector matches nothing.
type Executor interface {
	Sleep(ctx context.Context, d time.Duration) error
	DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error
	SendKeys(ctx context.Context, keys string) error
	GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error)
	// ExecuteScript evaluates script, a JavaScript function expression, with
	// args JSON-encoded as its arguments, and returns the result by value.
	ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error)
}
