// Package core wires the registration submission pipeline: validation,
// referral code issuance, normalization, insert and store error
// classification, plus the read paths for the landing page aggregates and
// the admin listing.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reunion/entity"
	"reunion/lib/sl"
)

// Store is the persistence access the pipeline requires. The uniqueness
// constraints on email and referral_code live in the store and are its
// responsibility to report through the entity error taxonomy.
type Store interface {
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	CreateRegistration(ctx context.Context, reg *entity.Registration) error
	CountStats(ctx context.Context) (*entity.Stats, error)
	CountByCountry(ctx context.Context) ([]*entity.CountryCount, error)
	ListRegistrations(ctx context.Context) ([]*entity.Registration, error)
}

// UserStore resolves admin API tokens.
type UserStore interface {
	GetUser(token string) (*entity.User, error)
}

// Issuer produces a referral code believed free at the time of the check.
type Issuer interface {
	Issue(ctx context.Context) (string, error)
}

// Notifier is one delivery channel for the post-insert event (confirmation
// email, organizers' chat). Failures never roll back the registration.
type Notifier interface {
	RegistrationCreated(ctx context.Context, reg *entity.Registration) error
}

const notifyTimeout = 30 * time.Second

type Core struct {
	store     Store
	users     UserStore
	issuer    Issuer
	notifiers []Notifier
	log       *slog.Logger
}

func New(store Store, issuer Issuer, log *slog.Logger) *Core {
	if store == nil {
		panic("store is nil")
	}
	return &Core{
		store:  store,
		issuer: issuer,
		log:    log.With(sl.Module("core")),
	}
}

// SetUserStore enables admin token authentication.
func (c *Core) SetUserStore(users UserStore) {
	c.users = users
}

// AddNotifier registers a delivery channel for post-insert events.
func (c *Core) AddNotifier(n Notifier) {
	if n != nil {
		c.notifiers = append(c.notifiers, n)
	}
}

// SubmitRegistration runs one submission attempt end to end. On success
// exactly one row exists and the returned record carries the issued code;
// on any failure nothing was persisted (except the inherently ambiguous
// ErrUnknownOutcome case) and the error identifies the failure kind.
func (c *Core) SubmitRegistration(ctx context.Context, form *entity.RegistrationForm) (*entity.Registration, error) {
	if fields := form.Validate(); len(fields) > 0 {
		return nil, &entity.ValidationError{Fields: fields}
	}

	code, err := c.issuer.Issue(ctx)
	if err != nil {
		return nil, fmt.Errorf("issue referral code: %w", err)
	}

	reg := form.Registration()
	reg.ReferralCode = code

	if err = c.store.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}
	c.log.Info("registration created",
		slog.String("id", reg.Id),
		slog.String("code", reg.ReferralCode),
		slog.String("country", reg.Country),
	)

	// Out-of-band: the registration is durable regardless of delivery.
	go c.dispatch(reg)

	return reg, nil
}

func (c *Core) dispatch(reg *entity.Registration) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := c.NotifyRegistration(ctx, reg); err != nil {
		c.log.Error("notification dispatch", slog.String("id", reg.Id), sl.Err(err))
	}
}

// NotifyRegistration fans the new record out to every registered channel.
// Also invoked directly by the webhook handler when an external trigger
// delivers the insert event.
func (c *Core) NotifyRegistration(ctx context.Context, reg *entity.Registration) error {
	var firstErr error
	for _, n := range c.notifiers {
		if err := n.RegistrationCreated(ctx, reg); err != nil {
			c.log.Error("notifier failed", sl.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Stats returns the landing page counters.
func (c *Core) Stats(ctx context.Context) (*entity.Stats, error) {
	return c.store.CountStats(ctx)
}

// WorldMap returns registrant counts per country with ISO codes resolved.
func (c *Core) WorldMap(ctx context.Context) ([]*entity.CountryCount, error) {
	points, err := c.store.CountByCountry(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		p.Code = entity.CountryCode(p.Country)
	}
	return points, nil
}

// Registrations lists all rows for the admin API.
func (c *Core) Registrations(ctx context.Context) ([]*entity.Registration, error) {
	return c.store.ListRegistrations(ctx)
}

// AuthenticateByToken resolves an admin bearer token to a user.
func (c *Core) AuthenticateByToken(token string) (*entity.User, error) {
	if c.users == nil {
		return nil, fmt.Errorf("user store not connected")
	}
	user, err := c.users.GetUser(token)
	if err != nil {
		return nil, err
	}
	if err = user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user record: %w", err)
	}
	return user, nil
}
