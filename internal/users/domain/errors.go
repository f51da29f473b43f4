package users

import "errors"

// ErrEmptyGUID indicates a user without an identifier.
var ErrEmptyGUID = errors.New("users: empty guid")

// ErrEmptyEmail indicates a user without an email address.
var ErrEmptyEmail = errors.New("users: empty email")

// ErrMissingCredentials indicates a user without a password hash or salt.
var ErrMissingCredentials = errors.New("users: missing credentials")

// ErrUserNotFound indicates a lookup for an unknown user.
var ErrUserNotFound = errors.New("users: user not found")

// ErrEmailTaken indicates a registration attempt with an email that is
// already in use.
var ErrEmailTaken = errors.New("users: email already registered")

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("users: invalid credentials")
