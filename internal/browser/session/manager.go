// internal/browser/session/manager.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/config"
)

// Manager owns the browser allocator and the sessions opened on it.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	cfg         config.BrowserConfig
	persona     schemas.Persona
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager prepares an exec allocator from cfg. No browser process is
// started until the first session is requested.
func NewManager(ctx context.Context, cfg config.Interface, logger *zap.Logger) *Manager {
	bcfg := cfg.Browser()
	persona := PersonaFor(bcfg)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(bcfg, persona)...)

	m := &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		cfg:         bcfg,
		persona:     persona,
		logger:      logger.Named("browser_manager"),
		sessions:    make(map[string]*Session),
	}
	m.logger.Debug("Browser manager created.", zap.Bool("headless", bcfg.Headless))
	return m
}

// NewSession launches a browser tab and tracks it until it is closed.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("browser manager is shut down")
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := NewSession(m.allocCtx, m.cfg, m.persona, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	s.SetOnClose(func() {
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
	})
	return s, nil
}

// Shutdown closes every open session and the allocator.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	m.closed = true
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		if err := s.Close(ctx); err != nil {
			m.logger.Debug("Error closing session during shutdown.", zap.String("session_id", s.ID()), zap.Error(err))
		}
	}
	m.allocCancel()
	m.logger.Debug("Browser manager shut down.")
}
