package humanoid

import (
	"context"
	"math"
	"time"
)

// Type sends text to the focused element one character at a time with
// normally distributed inter-key pauses. There is no typo model: the input
// is usually a credential, where a correction sequence is a liability.
func (h *Humanoid) Type(ctx context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	runes := []rune(text)
	for i, r := range runes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.executor.SendKeys(ctx, string(r)); err != nil {
			return err
		}
		if i == len(runes)-1 {
			break
		}
		if err := h.executor.Sleep(ctx, h.keyPause()); err != nil {
			return err
		}
	}
	return nil
}

// keyPause samples the inter-key interval. Caller holds h.mu.
func (h *Humanoid) keyPause() time.Duration {
	ms := h.config.KeyPauseMean + h.rng.NormFloat64()*h.config.KeyPauseStdDev
	ms = math.Max(h.config.KeyPauseMin, ms)
	return time.Duration(ms * float64(time.Millisecond))
}
