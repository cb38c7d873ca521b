// internal/browser/session/session.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
	"github.com/xkilldash9x/ghkey/internal/browser/stealth"
	"github.com/xkilldash9x/ghkey/internal/config"
)

// ErrElementNotFound is returned (wrapped) when a locator matches nothing on the page.
var ErrElementNotFound = humanoid.ErrElementNotFound

const (
	focusTimeout    = 10 * time.Second
	snapshotTimeout = 15 * time.Second
	closeTimeout    = 5 * time.Second
)

// Session is one browser tab driven through CDP, with a humanoid pointer
// and keyboard bound to it.
type Session struct {
	id         string
	ctx        context.Context
	cancel     context.CancelFunc
	logger     *zap.Logger
	navTimeout time.Duration
	humanoid   *humanoid.Humanoid

	onClose   func()
	closeOnce sync.Once
}

// NewSession opens a tab under parent, which must carry a chromedp allocator
// or browser context, and applies the persona to it.
func NewSession(parent context.Context, cfg config.BrowserConfig, persona schemas.Persona, logger *zap.Logger) (*Session, error) {
	id := uuid.New().String()
	log := logger.Named("session").With(zap.String("session_id", id))

	ctx, cancel := chromedp.NewContext(parent)
	s := &Session{
		id:         id,
		ctx:        ctx,
		cancel:     cancel,
		logger:     log,
		navTimeout: cfg.NavigationTimeout,
	}

	exec := &cdpExecutor{ctx: ctx, logger: log, runActionsFunc: s.RunActions}
	s.humanoid = humanoid.New(humanoid.ConfigFromSettings(cfg.Humanoid), log, exec)

	setup := chromedp.Tasks{
		stealth.Apply(persona, log),
	}
	if persona.Width > 0 && persona.Height > 0 {
		setup = append(setup, chromedp.EmulateViewport(persona.Width, persona.Height))
	}
	// The first Run on a fresh context launches the browser and attaches the tab.
	if err := chromedp.Run(ctx, setup); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize browser tab: %w", err)
	}

	log.Debug("Browser session ready.")
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// SetOnClose registers a callback run once when the session closes.
func (s *Session) SetOnClose(fn func()) { s.onClose = fn }

// RunActions runs actions against the tab, bounded by both ctx and the
// session lifetime.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// withNavTimeout bounds ctx by the configured navigation timeout, if any.
func (s *Session) withNavTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.navTimeout > 0 {
		return context.WithTimeout(ctx, s.navTimeout)
	}
	return context.WithCancel(ctx)
}

// Navigate loads url in the tab and returns once the page has loaded.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := s.withNavTimeout(ctx)
	defer cancel()

	s.logger.Debug("Navigating", zap.String("url", url))
	if err := s.RunActions(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// ExpectNavigation starts listening for the main frame's next load event and
// returns a function that blocks until it fires. Loads that happen after
// ExpectNavigation returns are observed even if the returned function is
// called later. The returned function must be called to release the listener.
func (s *Session) ExpectNavigation(ctx context.Context) func() error {
	waitCtx, cancel := s.withNavTimeout(ctx)
	listenCtx, stopListening := context.WithCancel(s.ctx)

	loaded := make(chan struct{}, 1)
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventLoadEventFired); ok {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})

	return func() error {
		defer cancel()
		defer stopListening()

		select {
		case <-loaded:
			return nil
		case <-waitCtx.Done():
			return fmt.Errorf("waiting for navigation: %w", waitCtx.Err())
		case <-s.ctx.Done():
			return fmt.Errorf("waiting for navigation: %w", s.ctx.Err())
		}
	}
}

// WaitForNavigation blocks until the main frame fires its next load event.
// It only observes loads that happen after it is called.
func (s *Session) WaitForNavigation(ctx context.Context) error {
	return s.ExpectNavigation(ctx)()
}

// Snapshot captures the current location and serialized document.
func (s *Session) Snapshot(ctx context.Context) (*schemas.PageSnapshot, error) {
	opCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	var snap schemas.PageSnapshot
	if err := s.RunActions(opCtx,
		chromedp.Location(&snap.URL),
		chromedp.OuterHTML("html", &snap.HTML, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("snapshot page: %w", err)
	}
	return &snap, nil
}

// Fill focuses the element matching selector and types text into it with
// humanoid key timing. A selector matching nothing fails with
// ErrElementNotFound without typing anything.
func (s *Session) Fill(ctx context.Context, selector, text string) error {
	var exists bool
	lookup := fmt.Sprintf(`document.querySelector(%s) !== null`, jsonEncode(selector))
	if err := s.RunActions(ctx, chromedp.Evaluate(lookup, &exists)); err != nil {
		return fmt.Errorf("look up '%s': %w", selector, err)
	}
	if !exists {
		return fmt.Errorf("fill '%s': %w", selector, ErrElementNotFound)
	}

	focusCtx, cancel := context.WithTimeout(ctx, focusTimeout)
	defer cancel()
	if err := s.RunActions(focusCtx, chromedp.Focus(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("focus '%s': %w", selector, err)
	}
	return s.humanoid.Type(ctx, text)
}

// SimulateClick clicks the element matching selector with a human-plausible
// pointer movement.
func (s *Session) SimulateClick(ctx context.Context, selector string) error {
	return s.humanoid.IntelligentClick(ctx, selector, nil)
}

// Close closes the tab and releases the browser. Safe to call more than once.
// Shutdown runs on its own short deadline so it completes even when ctx is
// already cancelled.
func (s *Session) Close(_ context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		closeCtx, cancel := context.WithTimeout(Detach(s.ctx), closeTimeout)
		defer cancel()
		if cerr := chromedp.Cancel(closeCtx); cerr != nil {
			s.logger.Debug("Graceful browser shutdown failed.", zap.Error(cerr))
			err = cerr
		}
		s.cancel()
		if s.onClose != nil {
			s.onClose()
		}
		s.logger.Debug("Browser session closed.")
	})
	return err
}
