package login

import "errors"

var (
	// ErrInvalidFormData is returned when the login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned on a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when the account exists but is inactive.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvalidAuthMethod is returned for an unknown auth_type value.
	ErrInvalidAuthMethod = errors.New("invalid authentication method")

	// ErrLocalAuthDisabled is returned when local database auth is turned off.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")

	// ErrNoAuthMethod is returned when no authentication source is enabled.
	ErrNoAuthMethod = errors.New("no authentication method is enabled")
)
