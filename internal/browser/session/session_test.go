// internal/browser/session/session_test.go
package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/ghkey/internal/config"
)

const testTimeout = 45 * time.Second

const tallPageHTML = `<!DOCTYPE html>
<html><body>
<form action="/session" method="post" style="margin-top:2400px">
  <input type="hidden" name="login" value="below-the-fold">
  <input type="submit" name="commit" value="Sign in" style="width:120px;height:32px">
</form>
</body></html>`

const loginPageHTML = `<!DOCTYPE html>
<html><body>
<form action="/session" method="post">
  <input type="text" name="login" id="login">
  <input type="password" name="password" id="password">
  <input type="submit" name="commit" value="Sign in" style="width:120px;height:32px">
</form>
</body></html>`

// requireChrome skips the test unless a Chrome binary is available.
func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary found")
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	requireChrome(t)

	cfg := config.NewDefaultConfig()
	cfg.SetBrowserHeadless(true)
	m := NewManager(context.Background(), cfg, zaptest.NewLogger(t))
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	return m
}

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPageHTML)
	})
	mux.HandleFunc("/tall", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tallPageHTML)
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `<html><body><p id="who">%s</p></body></html>`, r.PostFormValue("login"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_FillClickAndSnapshot(t *testing.T) {
	m := newTestManager(t)
	srv := newLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	s, err := m.NewSession(ctx)
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.Navigate(ctx, srv.URL+"/login"))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/login", snap.URL)
	assert.Contains(t, snap.HTML, `name="commit"`)

	require.NoError(t, s.Fill(ctx, `input[name="login"]`, "octocat"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.WaitForNavigation(gctx) })
	g.Go(func() error { return s.SimulateClick(gctx, `input[name="commit"]`) })
	require.NoError(t, g.Wait())

	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(snap.URL, "/session"), snap.URL)
	assert.Contains(t, snap.HTML, `<p id="who">octocat</p>`)
}

func TestSession_MissingElements(t *testing.T) {
	m := newTestManager(t)
	srv := newLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	s, err := m.NewSession(ctx)
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.Navigate(ctx, srv.URL+"/login"))

	err = s.Fill(ctx, `textarea[name="public_key[key]"]`, "ssh-ed25519 AAAA")
	assert.ErrorIs(t, err, ErrElementNotFound)

	err = s.SimulateClick(ctx, "#does-not-exist")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestSession_WaitForNavigationTimesOut(t *testing.T) {
	requireChrome(t)

	cfg := config.NewDefaultConfig()
	cfg.BrowserCfg.NavigationTimeout = 300 * time.Millisecond
	m := NewManager(context.Background(), cfg, zaptest.NewLogger(t))
	defer m.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	s, err := m.NewSession(ctx)
	require.NoError(t, err)

	err = s.WaitForNavigation(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, s.Close(ctx))
	assert.NoError(t, s.Close(ctx), "second close is a no-op")
}

func TestSession_ExpectNavigationObservesLoadBeforeWait(t *testing.T) {
	m := newTestManager(t)
	srv := newLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	s, err := m.NewSession(ctx)
	require.NoError(t, err)
	defer s.Close(ctx)

	wait := s.ExpectNavigation(ctx)
	require.NoError(t, s.Navigate(ctx, srv.URL+"/login"))
	assert.NoError(t, wait(), "a load that completed after arming is still observed")
}

func TestSession_ClickScrollsTargetIntoView(t *testing.T) {
	m := newTestManager(t)
	srv := newLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	s, err := m.NewSession(ctx)
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.Navigate(ctx, srv.URL+"/tall"))

	g, gctx := errgroup.WithContext(ctx)
	wait := s.ExpectNavigation(gctx)
	g.Go(wait)
	g.Go(func() error { return s.SimulateClick(gctx, `input[name="commit"]`) })
	require.NoError(t, g.Wait())

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(snap.URL, "/session"), snap.URL)
	assert.Contains(t, snap.HTML, `<p id="who">below-the-fold</p>`)
}
