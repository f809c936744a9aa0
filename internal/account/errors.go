package account

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is not active")
	ErrAlreadyActive      = errors.New("account is already active")
	ErrWrongPassword      = errors.New("old password is not correct")

	// ErrInvalidToken covers absent, expired, and already-consumed tokens.
	// The three cases are deliberately indistinguishable to callers.
	ErrInvalidToken = errors.New("invalid or expired token")
)
