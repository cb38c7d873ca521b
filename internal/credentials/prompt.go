package credentials

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	loginLabel    = "Login: "
	passwordLabel = "Password: "

	emptyLoginMsg    = "Empty user name!"
	emptyPasswordMsg = "Empty password"
)

// Prompter asks the operator for credentials on a line-oriented stream.
type Prompter struct {
	in         *bufio.Reader
	out        io.Writer
	style      *termenv.Output
	readSecret func() (string, error)
}

// NewPrompter reads answers from in and writes prompts to out. Secrets are
// read as plain lines.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		style: termenv.NewOutput(out),
	}
	p.readSecret = p.readLine
	return p
}

// NewTerminalPrompter is NewPrompter for a terminal: when in is a TTY the
// password is read without echo.
func NewTerminalPrompter(in *os.File, out io.Writer) *Prompter {
	p := NewPrompter(in, out)
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		p.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out) // the user's Enter was not echoed
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	return p
}

// Login asks for the login until a non-empty one is given.
func (p *Prompter) Login(ctx context.Context) (string, error) {
	return p.promptUntilSet(ctx, loginLabel, emptyLoginMsg, func() (string, error) {
		line, err := p.readLine()
		return strings.TrimSpace(line), err
	})
}

// Password asks for the password until a non-empty one is given.
func (p *Prompter) Password(ctx context.Context) (string, error) {
	return p.promptUntilSet(ctx, passwordLabel, emptyPasswordMsg, p.readSecret)
}

func (p *Prompter) promptUntilSet(ctx context.Context, label, emptyMsg string, read func() (string, error)) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.out, label)
		v, err := read()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
		}
		if err := nonEmpty(v); err != nil {
			p.warn(emptyMsg)
			continue
		}
		return v, nil
	}
}

func nonEmpty(v string) error {
	if v == "" {
		return ErrEmptyInput
	}
	return nil
}

func (p *Prompter) warn(msg string) {
	fmt.Fprintln(p.out, p.style.String(msg).Foreground(p.style.Color("1")))
}

// readLine returns the next line without its terminator. A final line
// without a newline is accepted; EOF with no data is an error.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
