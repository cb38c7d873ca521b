// File: internal/orchestrator/orchestrator.go
// Description: Runs the sign-in then key enrollment workflow once against a
// single browser session, reporting progress along the way.

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/internal/agent"
	"github.com/xkilldash9x/ghkey/internal/credentials"
)

// Session is a browser tab owned by one run.
type Session interface {
	agent.Page
	Close(ctx context.Context) error
}

// SessionProvider opens the run's browser session.
type SessionProvider interface {
	NewSession(ctx context.Context) (Session, error)
}

// SessionProviderFunc adapts a function to SessionProvider.
type SessionProviderFunc func(ctx context.Context) (Session, error)

func (f SessionProviderFunc) NewSession(ctx context.Context) (Session, error) { return f(ctx) }

// CredentialProvider supplies the account credentials.
type CredentialProvider interface {
	Credentials(ctx context.Context) (credentials.Bundle, error)
}

// KeySource supplies the public key to enroll.
type KeySource interface {
	Read(ctx context.Context) (string, error)
}

// Authenticator signs a page in.
type Authenticator interface {
	Login(ctx context.Context, page agent.Page, creds credentials.Bundle) error
}

// Enroller adds a key through a signed-in page.
type Enroller interface {
	Enroll(ctx context.Context, page agent.Page, key string) error
}

// Reporter shows the operator where the run is.
type Reporter interface {
	Progress(msg string)
	Success(msg string)
	Failure(err error)
}

// Deps are the Orchestrator's collaborators. All are required.
type Deps struct {
	Credentials CredentialProvider
	Sessions    SessionProvider
	Keys        KeySource
	Login       Authenticator
	Enroll      Enroller
	Reporter    Reporter
}

// Orchestrator runs the workflow: sign in, then enroll the key. There are
// no retries; the first failure ends the run.
type Orchestrator struct {
	logger *zap.Logger
	deps   Deps
}

// New creates an Orchestrator.
func New(logger *zap.Logger, deps Deps) (*Orchestrator, error) {
	if logger == nil ||
		deps.Credentials == nil ||
		deps.Sessions == nil ||
		deps.Keys == nil ||
		deps.Login == nil ||
		deps.Enroll == nil ||
		deps.Reporter == nil {
		return nil, errors.New("cannot initialize orchestrator with nil dependencies")
	}
	return &Orchestrator{logger: logger.Named("orchestrator"), deps: deps}, nil
}

// Run executes the workflow once. The session is closed before Run returns.
// The returned error is the one reported to the operator.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID))
	log.Info("Run started.")

	defer func() {
		if err != nil {
			o.deps.Reporter.Failure(err)
			log.Error("Run failed.", zap.Error(err), zap.String("advice", agent.Advice(err)))
			return
		}
		log.Info("Run finished.")
	}()

	creds, err := o.deps.Credentials.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	sess, err := o.deps.Sessions.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			log.Debug("Closing browser session failed.", zap.Error(cerr))
		}
	}()

	o.deps.Reporter.Progress("Logging in...")
	if err := o.deps.Login.Login(ctx, sess, creds); err != nil {
		return err
	}
	o.deps.Reporter.Success("Logged in")

	key, err := o.deps.Keys.Read(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrKeyMaterialRead) {
			err = fmt.Errorf("%w: %w", credentials.ErrKeyMaterialRead, err)
		}
		return err
	}

	o.deps.Reporter.Progress("Adding public key...")
	if err := o.deps.Enroll.Enroll(ctx, sess, key); err != nil {
		return err
	}
	o.deps.Reporter.Success("Public key added")
	return nil
}
