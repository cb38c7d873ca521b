// internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/xkilldash9x/ghkey/internal/agent"
)

// Console prints the operator-facing status lines of a run. Colors follow
// the capabilities of the output; a plain writer gets plain text.
type Console struct {
	mu  sync.Mutex
	out *termenv.Output
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, opts ...termenv.OutputOption) *Console {
	return &Console{out: termenv.NewOutput(w, opts...)}
}

// Progress announces a step that is starting.
func (c *Console) Progress(msg string) {
	c.println(c.out.String(msg).Foreground(c.out.Color("4")))
}

// Success announces a step that finished.
func (c *Console) Success(msg string) {
	c.println(c.out.String(msg).Foreground(c.out.Color("2")))
}

// Failure prints err and, when there is any, the advice for it.
func (c *Console) Failure(err error) {
	if err == nil {
		return
	}
	c.println(c.out.String("Error: " + err.Error()).Foreground(c.out.Color("1")).Bold())
	if advice := agent.Advice(err); advice != "" {
		c.println(c.out.String(advice).Foreground(c.out.Color("3")))
	}
}

func (c *Console) println(s termenv.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}
