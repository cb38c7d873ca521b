// internal/agent/errors.go
package agent

import (
	"errors"

	"github.com/xkilldash9x/ghkey/internal/browser/humanoid"
	"github.com/xkilldash9x/ghkey/internal/credentials"
)

// Failure kinds of the login and enrollment flows. Returned errors wrap
// exactly one of these; test with errors.Is.
var (
	// ErrFieldNotFound means a login form field was absent.
	ErrFieldNotFound = errors.New("login form field not found")
	// ErrKeyFieldNotFound means the public key field was absent.
	ErrKeyFieldNotFound = errors.New("public key field not found")
	// ErrDeviceVerificationRequired means the service challenged the sign-in
	// with a device verification step. It is never a credential problem.
	ErrDeviceVerificationRequired = errors.New("device verification required")
	// ErrAuthenticationFailed means sign-in ended somewhere other than the home page.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrKeyRejected means the service showed a validation error for the key.
	ErrKeyRejected = errors.New("public key rejected")
	// ErrEnrollmentFailed means key submission ended somewhere other than the keys page.
	ErrEnrollmentFailed = errors.New("public key enrollment failed")
)

// Advice returns operator guidance for a workflow error, or "" when there is
// nothing more useful to say than the error itself.
func Advice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDeviceVerificationRequired):
		return "The service wants to verify this device. Change your network egress (another IP address or VPN exit) and run again. Retrying from the same address tends to trigger more challenges."
	case errors.Is(err, ErrAuthenticationFailed):
		return "Check the login and password and run again."
	case errors.Is(err, ErrFieldNotFound), errors.Is(err, ErrKeyFieldNotFound), errors.Is(err, humanoid.ErrElementNotFound):
		return "The page no longer matches the configured locators. Update the locators section of the configuration."
	case errors.Is(err, ErrKeyRejected):
		return "The service rejected the key. It may already be registered, or the file is not an OpenSSH public key."
	case errors.Is(err, ErrEnrollmentFailed):
		return "Key submission did not reach the keys page. Check the account's SSH keys settings by hand."
	case errors.Is(err, credentials.ErrKeyMaterialRead):
		return "Point --key at a readable OpenSSH public key (.pub) file."
	}
	return ""
}
