// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/agent"
	"github.com/xkilldash9x/ghkey/internal/credentials"
	"github.com/xkilldash9x/ghkey/internal/orchestrator"
)

// -- Page / Session Mock --

// MockSession mocks a browser tab: agent.Page plus Close.
type MockSession struct {
	mock.Mock
}

var (
	_ agent.Page           = (*MockSession)(nil)
	_ orchestrator.Session = (*MockSession)(nil)
)

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// ExpectNavigation returns a wait resolved by the "WaitForNavigation"
// expectation, so tests stub the outcome of the wait itself.
func (m *MockSession) ExpectNavigation(ctx context.Context) func() error {
	return func() error {
		args := m.MethodCalled("WaitForNavigation", ctx)
		return args.Error(0)
	}
}

func (m *MockSession) Snapshot(ctx context.Context) (*schemas.PageSnapshot, error) {
	args := m.Called(ctx)
	var snap *schemas.PageSnapshot
	if s := args.Get(0); s != nil {
		snap = s.(*schemas.PageSnapshot)
	}
	return snap, args.Error(1)
}

func (m *MockSession) Fill(ctx context.Context, selector, text string) error {
	args := m.Called(ctx, selector, text)
	return args.Error(0)
}

func (m *MockSession) SimulateClick(ctx context.Context, selector string) error {
	args := m.Called(ctx, selector)
	return args.Error(0)
}

func (m *MockSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- Orchestrator Collaborator Mocks --

// MockSessionProvider mocks orchestrator.SessionProvider.
type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) NewSession(ctx context.Context) (orchestrator.Session, error) {
	args := m.Called(ctx)
	var s orchestrator.Session
	if v := args.Get(0); v != nil {
		s = v.(orchestrator.Session)
	}
	return s, args.Error(1)
}

// MockCredentialProvider mocks orchestrator.CredentialProvider.
type MockCredentialProvider struct {
	mock.Mock
}

func (m *MockCredentialProvider) Credentials(ctx context.Context) (credentials.Bundle, error) {
	args := m.Called(ctx)
	return args.Get(0).(credentials.Bundle), args.Error(1)
}

// MockKeySource mocks orchestrator.KeySource.
type MockKeySource struct {
	mock.Mock
}

func (m *MockKeySource) Read(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockAuthenticator mocks orchestrator.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, page agent.Page, creds credentials.Bundle) error {
	args := m.Called(ctx, page, creds)
	return args.Error(0)
}

// MockEnroller mocks orchestrator.Enroller.
type MockEnroller struct {
	mock.Mock
}

func (m *MockEnroller) Enroll(ctx context.Context, page agent.Page, key string) error {
	args := m.Called(ctx, page, key)
	return args.Error(0)
}

// MockReporter mocks orchestrator.Reporter.
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Progress(msg string) { m.Called(msg) }
func (m *MockReporter) Success(msg string)  { m.Called(msg) }
func (m *MockReporter) Failure(err error)   { m.Called(err) }
