package humanoid

import (
	"context"
	"time"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// IntelligentClick moves to the element and performs a left click there.
// The whole action holds the lock so no other action interleaves with it.
func (h *Humanoid) IntelligentClick(ctx context.Context, selector string, opts *InteractionOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.moveToSelector(ctx, selector); err != nil {
		return err
	}

	// Brief settle before pressing, as when aiming at a small control.
	settle := time.Duration(20+h.rng.Intn(40)) * time.Millisecond
	if err := h.executor.Sleep(ctx, settle); err != nil {
		return err
	}

	pos := h.currentPos
	if err := h.executor.DispatchMouseEvent(ctx, schemas.MouseEventData{
		Type:       schemas.MousePress,
		X:          pos.X,
		Y:          pos.Y,
		Button:     schemas.ButtonLeft,
		ClickCount: 1,
		Buttons:    1,
	}); err != nil {
		return err
	}
	h.currentButtonState = schemas.ButtonLeft

	if err := h.executor.Sleep(ctx, h.holdDuration(opts)); err != nil {
		// Never leave the button stuck down on the page.
		h.releaseMouse(context.WithoutCancel(ctx))
		return err
	}

	return h.releaseMouse(ctx)
}

// holdDuration samples a press duration uniformly in [ClickHoldMinMs, ClickHoldMaxMs].
func (h *Humanoid) holdDuration(opts *InteractionOptions) time.Duration {
	if opts != nil && opts.HoldOverride > 0 {
		return opts.HoldOverride
	}
	span := h.config.ClickHoldMaxMs - h.config.ClickHoldMinMs
	ms := h.config.ClickHoldMinMs
	if span > 0 {
		ms += h.rng.Intn(span + 1)
	}
	return time.Duration(ms) * time.Millisecond
}

// releaseMouse dispatches the release at the current position. Caller holds h.mu.
func (h *Humanoid) releaseMouse(ctx context.Context) error {
	pos := h.currentPos
	err := h.executor.DispatchMouseEvent(ctx, schemas.MouseEventData{
		Type:       schemas.MouseRelease,
		X:          pos.X,
		Y:          pos.Y,
		Button:     schemas.ButtonLeft,
		ClickCount: 1,
		Buttons:    0,
	})
	if err == nil {
		h.currentButtonState = schemas.ButtonNone
	}
	return err
}
