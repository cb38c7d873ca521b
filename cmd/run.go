// File: cmd/run.go
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/internal/agent"
	"github.com/xkilldash9x/ghkey/internal/browser/session"
	"github.com/xkilldash9x/ghkey/internal/config"
	"github.com/xkilldash9x/ghkey/internal/credentials"
	"github.com/xkilldash9x/ghkey/internal/observability"
	"github.com/xkilldash9x/ghkey/internal/orchestrator"
	"github.com/xkilldash9x/ghkey/internal/pagestate"
	"github.com/xkilldash9x/ghkey/internal/reporting"
)

// runOptions carries the per-invocation values that are not configuration.
type runOptions struct {
	login    string
	password string
}

type runner interface {
	Run(ctx context.Context) error
}

// newRunner wires the workflow. Tests replace it to avoid launching a browser.
var newRunner = buildWorkflow

func runWorkflow(cmd *cobra.Command, cfg *config.Config, opts runOptions) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	r, cleanup, err := newRunner(ctx, cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	defer cleanup(context.WithoutCancel(ctx))

	if err := r.Run(ctx); err != nil {
		return reportedError{err: err}
	}
	return nil
}

// buildWorkflow assembles the orchestrator and its collaborators. The
// returned cleanup shuts the browser down.
func buildWorkflow(ctx context.Context, cfg *config.Config, opts runOptions, in io.Reader, out io.Writer, logger *zap.Logger) (runner, func(context.Context), error) {
	classifier := pagestate.NewClassifier(cfg.Service(), cfg.Locators())
	mgr := session.NewManager(ctx, cfg, logger)

	orch, err := orchestrator.New(logger, orchestrator.Deps{
		Credentials: credentials.NewProvider(opts.login, opts.password, newPrompter(in, out)),
		Sessions: orchestrator.SessionProviderFunc(func(ctx context.Context) (orchestrator.Session, error) {
			s, err := mgr.NewSession(ctx)
			if err != nil {
				return nil, err
			}
			return s, nil
		}),
		Keys:     credentials.NewFileKeySource(cfg.Key().Path),
		Login:    agent.NewLoginExecutor(cfg, classifier, logger),
		Enroll:   agent.NewEnrollExecutor(cfg, classifier, logger),
		Reporter: reporting.NewConsole(out),
	})
	if err != nil {
		mgr.Shutdown(ctx)
		return nil, nil, err
	}
	return orch, mgr.Shutdown, nil
}

func newPrompter(in io.Reader, out io.Writer) *credentials.Prompter {
	if f, ok := in.(*os.File); ok {
		return credentials.NewTerminalPrompter(f, out)
	}
	return credentials.NewPrompter(in, out)
}
