// internal/browser/humanoid/scrolling.go
package humanoid

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// scrollIterationJS measures the target against the viewport and, when
// given a non-zero delta, scrolls the window by it first. It evaluates to a
// function taking (selector, deltaY, deltaX).
//
//go:embed scrolling.js
var scrollIterationJS string

const maxScrollIterations = 15

type scrollResult struct {
	ElementExists   bool    `json:"elementExists"`
	IsIntersecting  bool    `json:"isIntersecting"`
	IsComplete      bool    `json:"isComplete"`
	VerticalDelta   float64 `json:"verticalDelta"`
	HorizontalDelta float64 `json:"horizontalDelta"`
}

// intelligentScroll brings the element matching selector into the viewport
// in a few wheel-sized steps, each covering most of the remaining distance,
// with a short reading pause between them. A missing element is left for the
// geometry lookup to report. Caller holds h.mu.
func (h *Humanoid) intelligentScroll(ctx context.Context, selector string) error {
	var deltaY, deltaX float64
	for iteration := 1; iteration <= maxScrollIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := h.executeScrollJS(ctx, selector, deltaY, deltaX)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("humanoid: scrolling to '%s': %w", selector, err)
		}
		if !result.ElementExists || result.IsIntersecting {
			return nil
		}
		if result.IsComplete {
			// The page cannot scroll any further toward the element.
			break
		}

		fraction := 0.55 + h.rng.Float64()*0.35
		deltaY = result.VerticalDelta * fraction
		deltaX = result.HorizontalDelta * fraction

		if iteration > 1 {
			pause := time.Duration(80+h.rng.Intn(140)) * time.Millisecond
			if err := h.executor.Sleep(ctx, pause); err != nil {
				return err
			}
		}
		h.logger.Debug("Scrolling toward element",
			zap.String("selector", selector),
			zap.Int("iteration", iteration),
			zap.Float64("delta_y", deltaY))
	}

	return fmt.Errorf("humanoid: '%s' could not be scrolled into view: %w", selector, ErrElementNotFound)
}

// executeScrollJS runs one scroll iteration through the executor.
func (h *Humanoid) executeScrollJS(ctx context.Context, selector string, deltaY, deltaX float64) (*scrollResult, error) {
	raw, err := h.executor.ExecuteScript(ctx, scrollIterationJS, []interface{}{selector, deltaY, deltaX})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("scroll script returned no result")
	}

	var result scrollResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode scroll result: %w", err)
	}
	return &result, nil
}
