// internal/agent/login_executor.go
package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
	"github.com/xkilldash9x/ghkey/internal/config"
	"github.com/xkilldash9x/ghkey/internal/credentials"
	"github.com/xkilldash9x/ghkey/internal/observability"
	"github.com/xkilldash9x/ghkey/internal/pagestate"
)

// loginState names the steps of a sign-in attempt, for debug logs.
type loginState string

const (
	loginStart                loginState = "Start"
	loginNavigated            loginState = "NavigatedToLogin"
	loginCredentialsEntered   loginState = "CredentialsEntered"
	loginSubmissionInFlight   loginState = "SubmissionInFlight"
	loginAuthenticated        loginState = "Authenticated"
	loginDeviceVerification   loginState = "DeviceVerificationRequired"
	loginAuthenticationFailed loginState = "AuthenticationFailed"
)

// LoginExecutor signs into the service through a Page.
type LoginExecutor struct {
	logger     *zap.Logger
	loginURL   string
	locators   config.LocatorConfig
	classifier *pagestate.Classifier
}

// NewLoginExecutor creates a LoginExecutor. A nil logger uses the global one.
func NewLoginExecutor(cfg config.Interface, classifier *pagestate.Classifier, logger *zap.Logger) *LoginExecutor {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &LoginExecutor{
		logger:     logger.Named("login_executor"),
		loginURL:   cfg.Service().LoginURL(),
		locators:   cfg.Locators(),
		classifier: classifier,
	}
}

// Login signs in with creds. It returns nil only once the page has landed on
// the home page; any other outcome is an error wrapping one of the agent
// sentinels or the page's own error.
func (e *LoginExecutor) Login(ctx context.Context, page Page, creds credentials.Bundle) error {
	e.transition(loginStart)
	e.logger.Info("Signing in.", zap.String("login", creds.Login))

	if err := page.Navigate(ctx, e.loginURL); err != nil {
		return err
	}
	e.transition(loginNavigated)

	if err := e.fill(ctx, page, e.locators.LoginField, creds.Login); err != nil {
		return err
	}
	if err := e.fill(ctx, page, e.locators.PasswordField, creds.Password); err != nil {
		return err
	}
	e.transition(loginCredentialsEntered)

	e.transition(loginSubmissionInFlight)
	err := awaitTogether(ctx, page, func(ctx context.Context) error {
		return page.SimulateClick(ctx, e.locators.LoginSubmit)
	})
	if err != nil {
		return err
	}

	snap, err := page.Snapshot(ctx)
	if err != nil {
		return err
	}

	switch state := e.classifier.Classify(*snap); state {
	case pagestate.DeviceVerificationPage:
		e.transition(loginDeviceVerification)
		return fmt.Errorf("%w: the service redirected to %s", ErrDeviceVerificationRequired, snap.URL)
	case pagestate.HomePage:
		e.transition(loginAuthenticated)
		return nil
	default:
		e.transition(loginAuthenticationFailed)
		return fmt.Errorf("%w: landed on %s (%s)", ErrAuthenticationFailed, state, snap.URL)
	}
}

func (e *LoginExecutor) fill(ctx context.Context, page Page, selector, text string) error {
	err := page.Fill(ctx, selector, text)
	if errors.Is(err, humanoid.ErrElementNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrFieldNotFound, selector, err)
	}
	return err
}

func (e *LoginExecutor) transition(s loginState) {
	e.logger.Debug("Login state", zap.String("state", string(s)))
}
