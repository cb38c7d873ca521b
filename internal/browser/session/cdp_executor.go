// internal/browser/session/cdp_executor.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
)

const (
	inputEventTimeout = 10 * time.Second
	geometryTimeout   = 10 * time.Second
	scriptTimeout     = 20 * time.Second
)

// cdpExecutor implements humanoid.Executor on top of chromedp actions.
type cdpExecutor struct {
	ctx            context.Context // the session's master context
	logger         *zap.Logger
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error // Session.RunActions
}

var _ humanoid.Executor = (*cdpExecutor)(nil)

// Sleep pauses for d unless ctx or the session ends first.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.runActionsFunc(ctx, chromedp.Sleep(d))
}

// DispatchMouseEvent dispatches a single mouse event via CDP.
func (e *cdpExecutor) DispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	p := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(int64(data.ClickCount))

	opCtx, cancel := context.WithTimeout(ctx, inputEventTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, p)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("Mouse event dispatch timed out.", zap.Duration("timeout", inputEventTimeout))
		return fmt.Errorf("cdpExecutor: mouse event timed out after %v: %w", inputEventTimeout, opCtx.Err())
	}
	return err
}

// SendKeys types keys into the focused element.
func (e *cdpExecutor) SendKeys(ctx context.Context, keys string) error {
	opCtx, cancel := context.WithTimeout(ctx, inputEventTimeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, chromedp.KeyEvent(keys))
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("Key dispatch timed out.", zap.Duration("timeout", inputEventTimeout))
		return fmt.Errorf("cdpExecutor: key event timed out after %v: %w", inputEventTimeout, opCtx.Err())
	}
	return err
}

// geometryScript resolves a selector to its viewport quad, or null when the
// element is absent or not rendered.
const geometryScript = `
(function(sel) {
	const node = document.querySelector(sel);
	if (!node) return null;
	const rect = node.getBoundingClientRect();
	const style = window.getComputedStyle(node);
	if (rect.width <= 0 || rect.height <= 0 || style.display === 'none' || style.visibility === 'hidden') {
		return null;
	}
	return {
		vertices: [rect.left, rect.top, rect.right, rect.top, rect.right, rect.bottom, rect.left, rect.bottom],
		width: Math.round(rect.width),
		height: Math.round(rect.height),
		tagName: node.tagName || '',
		type: node.type || ''
	};
})(%s)`

// GetElementGeometry returns the viewport geometry of the first element
// matching selector. Absent or unrendered elements wrap humanoid.ErrElementNotFound.
func (e *cdpExecutor) GetElementGeometry(ctx context.Context, selector string) (*schemas.ElementGeometry, error) {
	script := fmt.Sprintf(geometryScript, jsonEncode(selector))

	opCtx, cancel := context.WithTimeout(ctx, geometryTimeout)
	defer cancel()

	var res json.RawMessage
	err := e.runActionsFunc(opCtx,
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithSilent(true)
		}),
	)
	if err != nil {
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout getting geometry for '%s': %w", selector, opCtx.Err())
		}
		return nil, fmt.Errorf("failed JS evaluation for geometry '%s': %w", selector, err)
	}

	if len(res) == 0 || string(res) == "null" {
		e.logger.Debug("Element not found or not visible.", zap.String("selector", selector))
		return nil, fmt.Errorf("'%s' not found or not visible: %w", selector, humanoid.ErrElementNotFound)
	}

	var geom schemas.ElementGeometry
	if err := json.Unmarshal(res, &geom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geometry for '%s': %w", selector, err)
	}
	return &geom, nil
}

// ExecuteScript calls the function expression script with args encoded as
// JSON literals and returns its result by value.
func (e *cdpExecutor) ExecuteScript(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	call, err := scriptCall(script, args)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	var res json.RawMessage
	err = e.runActionsFunc(opCtx,
		chromedp.Evaluate(call, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout during ExecuteScript: %w", opCtx.Err())
		}
		return nil, fmt.Errorf("failed ExecuteScript evaluation: %w", err)
	}
	return res, nil
}

// scriptCall renders an invocation of the function expression script.
func scriptCall(script string, args []interface{}) (string, error) {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("encode script argument %d: %w", i, err)
		}
		encoded[i] = string(b)
	}
	return "(" + strings.TrimSpace(script) + ")(" + strings.Join(encoded, ", ") + ")", nil
}

// jsonEncode quotes v for embedding into a script.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
