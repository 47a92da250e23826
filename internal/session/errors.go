// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated identity.
package session

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrValidation is the base class for input errors on login and signup.
// Callers match it with errors.Is to keep a form open for correction.
var ErrValidation = errors.New("validation failed")

var (
	// ErrInvalidEmail indicates the email lacks an "@".
	ErrInvalidEmail = fmt.Errorf("%w: email must contain @", ErrValidation)

	// ErrPasswordTooShort indicates the password is under the minimum length.
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrValidation)

	// ErrBadCredentials indicates the password does not match a stored
	// signup record for the email.
	ErrBadCredentials = fmt.Errorf("%w: incorrect password", ErrValidation)

	// ErrTooManyAttempts indicates the login throttle fired.
	ErrTooManyAttempts = fmt.Errorf("%w: too many attempts, slow down", ErrValidation)
)
