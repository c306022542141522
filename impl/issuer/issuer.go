// Package issuer generates the short shareable referral codes handed to
// every registrant. A code is a vanity identifier, not a security token:
// it only needs to be unique, not unguessable.
package issuer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"reunion/entity"
	"reunion/lib/sl"
)

const (
	codePrefix   = "ENG-"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4

	// DefaultMaxAttempts bounds the generate-and-check loop. With a 36^4
	// candidate space the budget only runs out when the store is nearly
	// full or unreachable.
	DefaultMaxAttempts = 5
)

// CodeChecker is the single read the issuer needs from the store.
type CodeChecker interface {
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
}

type Issuer struct {
	store       CodeChecker
	maxAttempts int
	log         *slog.Logger
}

// New creates an issuer bound to a store. maxAttempts <= 0 selects
// DefaultMaxAttempts.
func New(store CodeChecker, maxAttempts int, log *slog.Logger) *Issuer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Issuer{
		store:       store,
		maxAttempts: maxAttempts,
		log:         log.With(sl.Module("issuer")),
	}
}

// Issue returns a code not present in the store at the time of the check.
// The check-then-return sequence is not transactional: a concurrent
// submission may claim the same candidate before the insert lands, which
// the store's uniqueness constraint catches as the final authority.
// After maxAttempts collisions it gives up with ErrIssuanceExhausted.
func (i *Issuer) Issue(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		code := randomCode()
		exists, err := i.store.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
		if !exists {
			return code, nil
		}
		i.log.Debug("referral code collision",
			slog.String("code", code),
			slog.Int("attempt", attempt),
		)
	}
	return "", entity.ErrIssuanceExhausted
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return codePrefix + string(b)
}
