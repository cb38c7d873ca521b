// Package credentials gathers what the workflow needs from the operator:
// the account credentials and the public key to enroll.
package credentials

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput marks an empty answer at a prompt. Prompts handle it by
	// asking again, so callers never see it.
	ErrEmptyInput = errors.New("empty input")
	// ErrKeyMaterialRead is returned when the public key cannot be loaded.
	ErrKeyMaterialRead = errors.New("cannot read public key")
)

// Bundle is a login and password pair. It is held in memory only.
type Bundle struct {
	Login    string
	Password string
}

// String redacts the password so a Bundle is safe to print.
func (b Bundle) String() string {
	return "Bundle{Login: " + b.Login + ", Password: [redacted]}"
}

// GoString redacts the password under %#v as well.
func (b Bundle) GoString() string { return b.String() }

// Provider supplies credentials, from flags when given and interactively otherwise.
type Provider struct {
	login    string
	password string
	prompter *Prompter
}

// NewProvider creates a Provider. Empty login or password values are asked
// for through prompter.
func NewProvider(login, password string, prompter *Prompter) *Provider {
	return &Provider{login: login, password: password, prompter: prompter}
}

// Credentials returns a complete Bundle or the error that stopped the prompt.
func (p *Provider) Credentials(ctx context.Context) (Bundle, error) {
	b := Bundle{Login: p.login, Password: p.password}
	if b.Login != "" && b.Password != "" {
		return b, nil
	}
	if p.prompter == nil {
		return Bundle{}, errors.New("credentials missing and no interactive prompt available")
	}

	var err error
	if b.Login == "" {
		if b.Login, err = p.prompter.Login(ctx); err != nil {
			return Bundle{}, err
		}
	}
	if b.Password == "" {
		if b.Password, err = p.prompter.Password(ctx); err != nil {
			return Bundle{}, err
		}
	}
	return b, nil
}
