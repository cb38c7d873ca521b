// internal/agent/enroll_executor.go
package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
	"github.com/xkilldash9x/ghkey/internal/config"
	"github.com/xkilldash9x/ghkey/internal/observability"
	"github.com/xkilldash9x/ghkey/internal/pagestate"
)

// EnrollExecutor adds a public key on the account's SSH key settings page.
// The Page must already be signed in.
type EnrollExecutor struct {
	logger     *zap.Logger
	newKeyURL  string
	keyTitle   string
	locators   config.LocatorConfig
	classifier *pagestate.Classifier
}

// NewEnrollExecutor creates an EnrollExecutor. A nil logger uses the global one.
func NewEnrollExecutor(cfg config.Interface, classifier *pagestate.Classifier, logger *zap.Logger) *EnrollExecutor {
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &EnrollExecutor{
		logger:     logger.Named("enroll_executor"),
		newKeyURL:  cfg.Service().NewKeyURL(),
		keyTitle:   cfg.Key().Title,
		locators:   cfg.Locators(),
		classifier: classifier,
	}
}

// Enroll submits key and returns nil once the service lists it without a
// validation error.
func (e *EnrollExecutor) Enroll(ctx context.Context, page Page, key string) error {
	err := awaitTogether(ctx, page, func(ctx context.Context) error {
		return page.Navigate(ctx, e.newKeyURL)
	})
	if err != nil {
		return err
	}

	if e.locators.KeyTitleField != "" && e.keyTitle != "" {
		err := page.Fill(ctx, e.locators.KeyTitleField, e.keyTitle)
		switch {
		case errors.Is(err, humanoid.ErrElementNotFound):
			e.logger.Debug("No key title field on the form, leaving the title to the service.")
		case err != nil:
			return err
		}
	}

	if err := page.Fill(ctx, e.locators.KeyField, key); err != nil {
		if errors.Is(err, humanoid.ErrElementNotFound) {
			return fmt.Errorf("%w: %s: %w", ErrKeyFieldNotFound, e.locators.KeyField, err)
		}
		return err
	}

	err = awaitTogether(ctx, page, func(ctx context.Context) error {
		return page.SimulateClick(ctx, e.locators.KeySubmit)
	})
	if err != nil {
		return err
	}

	snap, err := page.Snapshot(ctx)
	if err != nil {
		return err
	}

	state := e.classifier.Classify(*snap)
	e.logger.Debug("Key submission settled.", zap.Stringer("state", state))
	switch state {
	case pagestate.SettingsKeysPageWithError:
		return fmt.Errorf("%w: %s", ErrKeyRejected, snap.URL)
	case pagestate.SettingsKeysPage:
		return nil
	default:
		return fmt.Errorf("%w: landed on %s (%s)", ErrEnrollmentFailed, state, snap.URL)
	}
}
