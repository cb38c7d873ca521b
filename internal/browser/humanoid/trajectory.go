package humanoid

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// computeEaseInOutCubic provides a smooth acceleration and deceleration profile for movement.
func computeEaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// calculateFittsLaw determines a movement duration from Fitts's law with +/-15% jitter.
// Caller holds h.mu.
func (h *Humanoid) calculateFittsLaw(distance float64) time.Duration {
	const W = 30.0 // Assumed target width in pixels.
	id := math.Log2(1.0 + distance/W)

	mt := h.config.FittsA + h.config.FittsB*id
	mt += mt * (h.rng.Float64()*0.3 - 0.15)
	if mt < 0 {
		mt = 0
	}
	return time.Duration(mt) * time.Millisecond
}

// bezierPath is a cubic Bezier curve from P0 to P3.
type bezierPath struct {
	P0, P1, P2, P3 Vector2D
}

// At evaluates the curve at t in [0, 1].
func (b bezierPath) At(t float64) Vector2D {
	omt := 1.0 - t
	omt2 := omt * omt
	t2 := t * t
	return b.P0.Mul(omt2 * omt).
		Add(b.P1.Mul(3 * omt2 * t)).
		Add(b.P2.Mul(3 * omt * t2)).
		Add(b.P3.Mul(t2 * t))
}

// generateIdealPath builds a curve whose control points sit at random
// positions along the chord, pushed sideways by a random share of the
// distance. Both control points bend to the same side most of the time,
// which gives the single arc typical of wrist movement. Caller holds h.mu.
func (h *Humanoid) generateIdealPath(start, end Vector2D) bezierPath {
	mainVec := end.Sub(start)
	dist := mainVec.Mag()
	if dist < 1.0 {
		return bezierPath{P0: start, P1: start, P2: end, P3: end}
	}

	dir := mainVec.Normalize()
	perp := Vector2D{X: -dir.Y, Y: dir.X}
	spread := h.config.CurveSpread * dist

	side := 1.0
	if h.rng.Float64() < 0.5 {
		side = -1.0
	}
	off1 := side * math.Abs(h.rng.NormFloat64()) * spread * 0.5
	off2 := off1 * (0.3 + h.rng.Float64()*0.9)
	if h.rng.Float64() < 0.15 {
		off2 = -off2
	}

	p1 := start.Add(dir.Mul(dist * (0.2 + h.rng.Float64()*0.2))).Add(perp.Mul(off1))
	p2 := start.Add(dir.Mul(dist * (0.6 + h.rng.Float64()*0.2))).Add(perp.Mul(off2))
	return bezierPath{P0: start, P1: p1, P2: p2, P3: end}
}

// simulateTrajectory moves the pointer from start to end, dispatching one move
// event per step. Steps are evenly spaced in time but eased in curve
// parameter, so the pointer accelerates then decelerates. The last event is
// dispatched exactly at end. Caller holds h.mu.
func (h *Humanoid) simulateTrajectory(ctx context.Context, start, end Vector2D) error {
	dist := start.Dist(end)
	duration := h.calculateFittsLaw(dist)
	numSteps := int(duration.Seconds() * 100)
	if numSteps < 2 {
		numSteps = 2
	}
	stepInterval := duration / time.Duration(numSteps-1)

	path := h.generateIdealPath(start, end)
	startTime := time.Now()

	for i := 1; i < numSteps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		t := float64(i) / float64(numSteps-1)
		point := path.At(computeEaseInOutCubic(t))

		if i < numSteps-1 {
			point = point.Add(h.perturbation(time.Since(startTime).Seconds(), t))
		} else {
			point = end
		}

		if err := h.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := h.executor.DispatchMouseEvent(ctx, schemas.MouseEventData{
			Type:   schemas.MouseMove,
			X:      point.X,
			Y:      point.Y,
			Button: schemas.ButtonNone,
		}); err != nil {
			if ctx.Err() == nil {
				h.logger.Warn("Failed to dispatch mouse move event", zap.Error(err))
			}
			return err
		}
		h.currentPos = point

		jitter := time.Duration(h.rng.Intn(4)) * time.Millisecond
		if err := h.executor.Sleep(ctx, stepInterval+jitter); err != nil {
			return err
		}
	}
	return nil
}

// perturbation returns perlin drift plus gaussian tremor, faded out towards
// both ends of the path so the pointer leaves and arrives cleanly.
func (h *Humanoid) perturbation(elapsed, t float64) Vector2D {
	envelope := math.Sin(math.Pi * t)
	const perlinFrequency = 0.8
	drift := Vector2D{
		X: h.noiseX.Noise1D(elapsed*perlinFrequency) * h.config.PerlinAmplitude,
		Y: h.noiseY.Noise1D(elapsed*perlinFrequency) * h.config.PerlinAmplitude,
	}
	tremor := Vector2D{
		X: h.rng.NormFloat64() * h.config.GaussianStrength,
		Y: h.rng.NormFloat64() * h.config.GaussianStrength,
	}
	return drift.Add(tremor).Mul(envelope)
}
