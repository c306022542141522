package entity

import (
	"errors"
	"fmt"
)

// Submission failure kinds. The store layer maps raw storage errors onto
// these so handlers can pick the right user-facing message without knowing
// which backend produced them.
var (
	// ErrDuplicateEmail: the store rejected the insert because the email
	// is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateReferralCode: a code collision slipped past the issuer's
	// pre-check and hit the store constraint. Safe to retry, a new attempt
	// gets a fresh candidate.
	ErrDuplicateReferralCode = errors.New("referral code already taken")
	// ErrIssuanceExhausted: the issuer burned its whole attempt budget
	// without finding a free code.
	ErrIssuanceExhausted = errors.New("unable to generate a unique referral code")
	// ErrUnknownOutcome: the insert response was never observed. The row may
	// or may not exist; success must not be claimed and a resubmit may hit
	// the email uniqueness guard.
	ErrUnknownOutcome = errors.New("registration outcome unknown")
)

// ValidationError carries per-field messages for a rejected form.
// It never reaches the store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// StoreError wraps any store failure that is not a recognized uniqueness
// violation. Message keeps the server's text when one is available.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "store request failed"
}

func (e *StoreError) Unwrap() error { return e.Err }
