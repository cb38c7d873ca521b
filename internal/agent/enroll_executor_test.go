// internal/agent/enroll_executor_test.go
package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/agent"
	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
	"github.com/xkilldash9x/ghkey/internal/config"
	"github.com/xkilldash9x/ghkey/internal/mocks"
	"github.com/xkilldash9x/ghkey/internal/pagestate"
)

const testKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIFakeKeyMaterial octocat@laptop"

func newEnrollFixture(t *testing.T, mutate func(*config.Config)) (*agent.EnrollExecutor, *mocks.MockSession, config.LocatorConfig) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.KeyCfg.Title = "laptop"
	if mutate != nil {
		mutate(cfg)
	}
	classifier := pagestate.NewClassifier(cfg.Service(), cfg.Locators())
	return agent.NewEnrollExecutor(cfg, classifier, zaptest.NewLogger(t)), new(mocks.MockSession), cfg.Locators()
}

func expectKeyForm(page *mocks.MockSession, loc config.LocatorConfig) {
	page.On("Navigate", mock.Anything, "https://github.com/settings/ssh/new").Return(nil).Once()
	page.On("WaitForNavigation", mock.Anything).Return(nil).Twice()
	page.On("Fill", mock.Anything, loc.KeyTitleField, "laptop").Return(nil).Once()
	page.On("Fill", mock.Anything, loc.KeyField, testKey).Return(nil).Once()
	page.On("SimulateClick", mock.Anything, loc.KeySubmit).Return(nil).Once()
}

func TestEnroll_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		snap    schemas.PageSnapshot
		wantErr error
	}{
		{
			name: "listed on keys page",
			snap: schemas.PageSnapshot{URL: "https://github.com/settings/keys", HTML: `<div class="flash-notice">Key added</div>`},
		},
		{
			name:    "validation error",
			snap:    schemas.PageSnapshot{URL: "https://github.com/settings/keys", HTML: `<div class="flash-error">Key is invalid.</div>`},
			wantErr: agent.ErrKeyRejected,
		},
		{
			name:    "hidden error banner is ignored",
			snap:    schemas.PageSnapshot{URL: "https://github.com/settings/keys", HTML: `<div class="flash-error" hidden></div>`},
			wantErr: nil,
		},
		{
			name:    "bounced to login",
			snap:    schemas.PageSnapshot{URL: "https://github.com/login"},
			wantErr: agent.ErrEnrollmentFailed,
		},
		{
			name:    "stayed on the form",
			snap:    schemas.PageSnapshot{URL: "https://github.com/settings/ssh/new"},
			wantErr: agent.ErrEnrollmentFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, page, loc := newEnrollFixture(t, nil)
			expectKeyForm(page, loc)
			snap := tt.snap
			page.On("Snapshot", mock.Anything).Return(&snap, nil).Once()

			err := exec.Enroll(context.Background(), page, testKey)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
			page.AssertExpectations(t)
		})
	}
}

func TestEnroll_MissingKeyField(t *testing.T) {
	exec, page, loc := newEnrollFixture(t, nil)
	page.On("Navigate", mock.Anything, mock.Anything).Return(nil)
	page.On("WaitForNavigation", mock.Anything).Return(nil)
	page.On("Fill", mock.Anything, loc.KeyTitleField, mock.Anything).Return(nil)
	page.On("Fill", mock.Anything, loc.KeyField, testKey).Return(humanoid.ErrElementNotFound)

	err := exec.Enroll(context.Background(), page, testKey)
	require.ErrorIs(t, err, agent.ErrKeyFieldNotFound)
	assert.NotErrorIs(t, err, agent.ErrFieldNotFound)
	page.AssertNotCalled(t, "SimulateClick", mock.Anything, mock.Anything)
}

func TestEnroll_TitleField(t *testing.T) {
	t.Run("missing title field is tolerated", func(t *testing.T) {
		exec, page, loc := newEnrollFixture(t, nil)
		page.On("Navigate", mock.Anything, mock.Anything).Return(nil)
		page.On("WaitForNavigation", mock.Anything).Return(nil)
		page.On("Fill", mock.Anything, loc.KeyTitleField, "laptop").Return(humanoid.ErrElementNotFound)
		page.On("Fill", mock.Anything, loc.KeyField, testKey).Return(nil)
		page.On("SimulateClick", mock.Anything, loc.KeySubmit).Return(nil)
		page.On("Snapshot", mock.Anything).Return(&schemas.PageSnapshot{URL: "https://github.com/settings/keys"}, nil)

		require.NoError(t, exec.Enroll(context.Background(), page, testKey))
	})

	t.Run("title field disabled", func(t *testing.T) {
		exec, page, loc := newEnrollFixture(t, func(c *config.Config) { c.LocatorsCfg.KeyTitleField = "" })
		page.On("Navigate", mock.Anything, mock.Anything).Return(nil)
		page.On("WaitForNavigation", mock.Anything).Return(nil)
		page.On("Fill", mock.Anything, loc.KeyField, testKey).Return(nil)
		page.On("SimulateClick", mock.Anything, loc.KeySubmit).Return(nil)
		page.On("Snapshot", mock.Anything).Return(&schemas.PageSnapshot{URL: "https://github.com/settings/keys"}, nil)

		require.NoError(t, exec.Enroll(context.Background(), page, testKey))
		page.AssertNumberOfCalls(t, "Fill", 1)
	})
}

func TestEnroll_SubmitErrorPropagates(t *testing.T) {
	boom := errors.New("execution context destroyed")
	exec, page, loc := newEnrollFixture(t, nil)
	page.On("Navigate", mock.Anything, mock.Anything).Return(nil)
	page.On("WaitForNavigation", mock.Anything).Return(nil)
	page.On("Fill", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	page.On("SimulateClick", mock.Anything, loc.KeySubmit).Return(boom)

	err := exec.Enroll(context.Background(), page, testKey)
	assert.ErrorIs(t, err, boom)
	page.AssertNotCalled(t, "Snapshot", mock.Anything)
}

func TestEnroll_RejectionNamesLandingPage(t *testing.T) {
	exec, page, loc := newEnrollFixture(t, nil)
	expectKeyForm(page, loc)
	page.On("Snapshot", mock.Anything).Return(&schemas.PageSnapshot{
		URL:  "https://github.com/settings/keys?rejected=1",
		HTML: `<div class="flash-error">Key is already in use</div>`,
	}, nil).Once()

	err := exec.Enroll(context.Background(), page, testKey)
	require.ErrorIs(t, err, agent.ErrKeyRejected)
	assert.Contains(t, err.Error(), "https://github.com/settings/keys?rejected=1")
}

func TestEnroll_NavigationsAwaitedWithTheirTriggers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.KeyCfg.Title = "laptop"
	classifier := pagestate.NewClassifier(cfg.Service(), cfg.Locators())
	exec := agent.NewEnrollExecutor(cfg, classifier, zaptest.NewLogger(t))
	loc := cfg.Locators()

	page := newNavPage(&schemas.PageSnapshot{URL: "https://github.com/settings/keys"})

	require.NoError(t, exec.Enroll(context.Background(), page, testKey))
	assert.Equal(t, 2, page.Settled(), "the form load and the submission are both awaited")
	assert.Equal(t, []string{
		"navigate https://github.com/settings/ssh/new",
		"fill " + loc.KeyTitleField,
		"fill " + loc.KeyField,
		"click " + loc.KeySubmit,
	}, page.Actions())
}
