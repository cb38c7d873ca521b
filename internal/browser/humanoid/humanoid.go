// internal/browser/humanoid/humanoid.go
package humanoid

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// Humanoid holds the pointer state and persona for one page.
type Humanoid struct {
	// mu serializes actions and guards every field below it.
	mu                 sync.Mutex
	config             Config
	logger             *zap.Logger
	executor           Executor
	currentPos         Vector2D
	currentButtonState schemas.MouseButton
	rng                *rand.Rand
	noiseX             *perlin.Perlin
	noiseY             *perlin.Perlin
	limiter            *rate.Limiter
}

var _ Controller = (*Humanoid)(nil)

// New creates and initializes a new Humanoid instance.
func New(config Config, logger *zap.Logger, executor Executor) *Humanoid {
	seed := time.Now().UnixNano()
	rng := config.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(seed))
	}
	config.FinalizeSessionPersona(rng)

	limit := rate.Inf
	if config.MaxEventRateHz > 0 {
		limit = rate.Limit(config.MaxEventRateHz)
	}

	// Standard Perlin noise parameters.
	alpha, beta, n := 2.0, 2.0, int32(3)

	return &Humanoid{
		config:             config,
		logger:             logger.Named("humanoid"),
		executor:           executor,
		currentButtonState: schemas.ButtonNone,
		rng:                rng,
		noiseX:             perlin.NewPerlin(alpha, beta, n, seed),
		noiseY:             perlin.NewPerlin(alpha, beta, n, seed+1),
		limiter:            rate.NewLimiter(limit, 1),
	}
}

// NewTestHumanoid creates a Humanoid with a seeded RNG and no event pacing.
func NewTestHumanoid(executor Executor, seed int64) *Humanoid {
	config := DefaultConfig()
	config.Rng = rand.New(rand.NewSource(seed))
	config.MaxEventRateHz = 0

	h := New(config, zap.NewNop(), executor)
	h.noiseX = perlin.NewPerlin(2, 2, 3, seed)
	h.noiseY = perlin.NewPerlin(2, 2, 3, seed+1)
	return h
}

// Position returns the last dispatched pointer position.
func (h *Humanoid) Position() Vector2D {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentPos
}

// SetPosition seeds the pointer position, e.g. after the page was reloaded
// under a known cursor location.
func (h *Humanoid) SetPosition(p Vector2D) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentPos = p
}
