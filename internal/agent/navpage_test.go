// internal/agent/navpage_test.go
package agent_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xkilldash9x/ghkey/api/schemas"
)

// navPatience bounds how long navPage lets one side of a navigation wait for
// the other before failing.
const navPatience = 2 * time.Second

// navigation pairs a trigger with the wait armed for it.
type navigation struct {
	triggered chan struct{}
	waiting   chan struct{}
}

// navPage is an agent.Page whose page changes only succeed when the trigger
// and the wait for it are in flight at the same time. A trigger with no
// armed wait is treated as a plain action and does not change the page.
type navPage struct {
	mu      sync.Mutex
	pending *navigation
	snaps   []*schemas.PageSnapshot
	actions []string
	settled int
}

func newNavPage(snaps ...*schemas.PageSnapshot) *navPage {
	return &navPage{snaps: snaps}
}

func (p *navPage) record(action string) {
	p.mu.Lock()
	p.actions = append(p.actions, action)
	p.mu.Unlock()
}

func (p *navPage) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// Settled reports how many navigations completed with both sides in flight.
func (p *navPage) Settled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

func (p *navPage) ExpectNavigation(ctx context.Context) func() error {
	nav := &navigation{triggered: make(chan struct{}), waiting: make(chan struct{})}
	p.mu.Lock()
	p.pending = nav
	p.mu.Unlock()

	return func() error {
		close(nav.waiting)
		select {
		case <-nav.triggered:
			p.mu.Lock()
			p.settled++
			p.mu.Unlock()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(navPatience):
			return errors.New("navigation wait finished with no trigger in flight")
		}
	}
}

// trigger consumes the armed navigation and holds until its wait is running.
func (p *navPage) trigger() error {
	p.mu.Lock()
	nav := p.pending
	p.pending = nil
	p.mu.Unlock()
	if nav == nil {
		return nil
	}

	close(nav.triggered)
	select {
	case <-nav.waiting:
		return nil
	case <-time.After(navPatience):
		return errors.New("page change triggered with no navigation wait in flight")
	}
}

func (p *navPage) Navigate(ctx context.Context, url string) error {
	p.record("navigate " + url)
	return p.trigger()
}

func (p *navPage) SimulateClick(ctx context.Context, selector string) error {
	p.record("click " + selector)
	return p.trigger()
}

func (p *navPage) Fill(ctx context.Context, selector, text string) error {
	p.record("fill " + selector)
	return nil
}

func (p *navPage) Snapshot(ctx context.Context) (*schemas.PageSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snaps) == 0 {
		return nil, errors.New("no snapshot scripted")
	}
	snap := p.snaps[0]
	p.snaps = p.snaps[1:]
	return snap, nil
}
