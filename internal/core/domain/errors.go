package domain

import "errors"

// Validation errors, recoverable by the caller with corrected input
var (
	ErrAmountInvalid      = errors.New("funding amount is invalid")
	ErrInvalidDateOfBirth = errors.New("date of birth is invalid")
	ErrUnderage           = errors.New("must be at least 18 years old")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
)

// Conflict errors
var (
	ErrEmailTaken             = errors.New("email is already registered")
	ErrAccountTypeExists      = errors.New("an account of this type already exists")
	ErrAccountNumberExhausted = errors.New("could not allocate a unique account number")
)

// Lookup and state errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAccountNotActive = errors.New("account is not active")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionInvalid     = errors.New("session is invalid")
	ErrSessionExpired     = errors.New("session has expired")
)
