// File: internal/config/humanoid_config.go
// This file defines the HumanoidConfig struct, which contains the tunable
// parameters for pointer and keyboard emulation: movement timing (Fitts's
// law), trajectory noise, click hold, and inter-key pauses.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// HumanoidConfig holds the persona parameters for the humanoid package.
type HumanoidConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Fitts's Law Parameters
	FittsAMean   float64 `mapstructure:"fitts_a_mean" yaml:"fitts_a_mean"`
	FittsAStdDev float64 `mapstructure:"fitts_a_stddev" yaml:"fitts_a_stddev"`
	FittsBMean   float64 `mapstructure:"fitts_b_mean" yaml:"fitts_b_mean"`
	FittsBStdDev float64 `mapstructure:"fitts_b_stddev" yaml:"fitts_b_stddev"`

	// Noise and Tremor
	GaussianStrengthMean float64 `mapstructure:"gaussian_strength_mean" yaml:"gaussian_strength_mean"`
	PerlinAmplitudeMean  float64 `mapstructure:"perlin_amplitude_mean" yaml:"perlin_amplitude_mean"`

	// Path shape: maximum perpendicular control point offset as a fraction of distance.
	CurveSpread float64 `mapstructure:"curve_spread" yaml:"curve_spread"`

	// Clicking Behavior
	ClickHoldMinMs int `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs int `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`

	// Key Pause (IKD) Parameters
	KeyPauseMean   float64 `mapstructure:"key_pause_mean" yaml:"key_pause_mean"`
	KeyPauseStdDev float64 `mapstructure:"key_pause_stddev" yaml:"key_pause_stddev"`
	KeyPauseMin    float64 `mapstructure:"key_pause_min" yaml:"key_pause_min"`

	// MaxEventRateHz caps how many pointer move events are dispatched per second.
	MaxEventRateHz float64 `mapstructure:"max_event_rate_hz" yaml:"max_event_rate_hz"`
}

// setHumanoidDefaults centralizes the humanoid defaults used by SetDefaults.
func setHumanoidDefaults(v *viper.Viper) {
	v.SetDefault("browser.humanoid.enabled", true)
	v.SetDefault("browser.humanoid.fitts_a_mean", 100.0)
	v.SetDefault("browser.humanoid.fitts_a_stddev", 15.0)
	v.SetDefault("browser.humanoid.fitts_b_mean", 120.0)
	v.SetDefault("browser.humanoid.fitts_b_stddev", 20.0)
	v.SetDefault("browser.humanoid.gaussian_strength_mean", 0.5)
	v.SetDefault("browser.humanoid.perlin_amplitude_mean", 2.5)
	v.SetDefault("browser.humanoid.curve_spread", 0.3)
	v.SetDefault("browser.humanoid.click_hold_min_ms", 50)
	v.SetDefault("browser.humanoid.click_hold_max_ms", 120)
	v.SetDefault("browser.humanoid.key_pause_mean", 70.0)
	v.SetDefault("browser.humanoid.key_pause_stddev", 28.0)
	v.SetDefault("browser.humanoid.key_pause_min", 35.0)
	v.SetDefault("browser.humanoid.max_event_rate_hz", 125.0)
}

// Validate checks that the humanoid bounds are usable.
func (h *HumanoidConfig) Validate() error {
	if h.ClickHoldMinMs < 0 {
		return errors.New("click_hold_min_ms must not be negative")
	}
	if h.ClickHoldMaxMs < h.ClickHoldMinMs {
		return errors.New("click_hold_max_ms must be >= click_hold_min_ms")
	}
	if h.MaxEventRateHz <= 0 {
		return errors.New("max_event_rate_hz must be positive")
	}
	if h.CurveSpread < 0 {
		return errors.New("curve_spread must not be negative")
	}
	return nil
}
