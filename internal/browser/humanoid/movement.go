// internal/browser/humanoid/movement.go
package humanoid

import (
	"context"
	"fmt"
	"math"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// MoveTo moves the pointer onto the element matched by selector.
func (h *Humanoid) MoveTo(ctx context.Context, selector string, opts *InteractionOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moveToSelector(ctx, selector)
}

// MoveToVector moves the pointer to a specific coordinate.
func (h *Humanoid) MoveToVector(ctx context.Context, target Vector2D) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.simulateTrajectory(ctx, h.currentPos, target)
}

// moveToSelector is the non-locking core of MoveTo. The element is scrolled
// into the viewport before its geometry is read. Caller holds h.mu.
func (h *Humanoid) moveToSelector(ctx context.Context, selector string) error {
	if err := h.intelligentScroll(ctx, selector); err != nil {
		return err
	}
	geo, err := h.getElementBoxBySelector(ctx, selector)
	if err != nil {
		return err
	}
	center, valid := boxToCenter(geo)
	if !valid {
		return fmt.Errorf("humanoid: element '%s' has invalid geometry", selector)
	}

	target := h.calculateTargetPoint(geo, center)
	h.logger.Debug("Moving pointer",
		zapVector("from", h.currentPos),
		zapVector("to", target))
	return h.simulateTrajectory(ctx, h.currentPos, target)
}

// calculateTargetPoint picks a point near the center of the element, drawn
// from a normal distribution over its inner 90% and clamped one pixel inside
// the border. Caller holds h.mu.
func (h *Humanoid) calculateTargetPoint(geo *schemas.ElementGeometry, center Vector2D) Vector2D {
	if geo == nil || geo.Width <= 0 || geo.Height <= 0 {
		return center
	}

	width, height := float64(geo.Width), float64(geo.Height)
	offsetX := h.rng.NormFloat64() * (width * 0.9 / 6.0)
	offsetY := h.rng.NormFloat64() * (height * 0.9 / 6.0)

	halfW := math.Max(0, width/2.0-1.0)
	halfH := math.Max(0, height/2.0-1.0)

	return Vector2D{
		X: math.Max(center.X-halfW, math.Min(center.X+halfW, center.X+offsetX)),
		Y: math.Max(center.Y-halfH, math.Min(center.Y+halfH, center.Y+offsetY)),
	}
}
