// internal/browser/humanoid/config.go
package humanoid

import (
	"math"
	"math/rand"

	"github.com/xkilldash9x/ghkey/internal/config"
)

// Config holds the parameters defining the behavior of the simulation.
type Config struct {
	Rng *rand.Rand

	// Fitts's Law Parameters
	FittsAMean, FittsAStdDev float64
	FittsBMean, FittsBStdDev float64

	// Noise and Tremor
	GaussianStrength float64
	PerlinAmplitude  float64
	CurveSpread      float64

	// Clicking Behavior
	ClickHoldMinMs int
	ClickHoldMaxMs int

	// Key Pause (IKD) Parameters
	KeyPauseMean   float64
	KeyPauseStdDev float64
	KeyPauseMin    float64

	// MaxEventRateHz caps pointer move dispatch. Zero or negative means unlimited.
	MaxEventRateHz float64

	// Instance Parameters, fixed per session by FinalizeSessionPersona.
	FittsA, FittsB float64
}

// DefaultConfig returns a configuration representing an average user.
func DefaultConfig() Config {
	return Config{
		FittsAMean: 100.0, FittsAStdDev: 15.0,
		FittsBMean: 120.0, FittsBStdDev: 20.0,
		GaussianStrength: 0.5,
		PerlinAmplitude:  2.5,
		CurveSpread:      0.3,
		ClickHoldMinMs:   50,
		ClickHoldMaxMs:   120,
		KeyPauseMean:     70.0,
		KeyPauseStdDev:   28.0,
		KeyPauseMin:      35.0,
		MaxEventRateHz:   125.0,
	}
}

// ConfigFromSettings maps the user-facing settings onto a humanoid Config.
func ConfigFromSettings(s config.HumanoidConfig) Config {
	c := DefaultConfig()
	c.FittsAMean, c.FittsAStdDev = s.FittsAMean, s.FittsAStdDev
	c.FittsBMean, c.FittsBStdDev = s.FittsBMean, s.FittsBStdDev
	c.GaussianStrength = s.GaussianStrengthMean
	c.PerlinAmplitude = s.PerlinAmplitudeMean
	c.CurveSpread = s.CurveSpread
	c.ClickHoldMinMs, c.ClickHoldMaxMs = s.ClickHoldMinMs, s.ClickHoldMaxMs
	c.KeyPauseMean, c.KeyPauseStdDev, c.KeyPauseMin = s.KeyPauseMean, s.KeyPauseStdDev, s.KeyPauseMin
	c.MaxEventRateHz = s.MaxEventRateHz
	return c
}

// FinalizeSessionPersona samples the fixed instance parameters for a session.
func (c *Config) FinalizeSessionPersona(rng *rand.Rand) {
	c.Rng = rng
	c.FittsA = math.Max(20.0, sampleGaussian(rng, c.FittsAMean, c.FittsAStdDev))
	c.FittsB = math.Max(20.0, sampleGaussian(rng, c.FittsBMean, c.FittsBStdDev))
	c.GaussianStrength = math.Max(0, c.GaussianStrength)
	c.PerlinAmplitude = math.Max(0, c.PerlinAmplitude)

	if c.ClickHoldMinMs < 0 {
		c.ClickHoldMinMs = 0
	}
	if c.ClickHoldMaxMs <= c.ClickHoldMinMs {
		c.ClickHoldMaxMs = c.ClickHoldMinMs + 1
	}
}

func sampleGaussian(rng *rand.Rand, mean, stdDev float64) float64 {
	if rng == nil {
		return mean
	}
	return mean + rng.NormFloat64()*stdDev
}
