package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunion/entity"
	"reunion/impl/issuer"
	"reunion/internal/database"
)

var codeRx = regexp.MustCompile(`^ENG-[A-Z0-9]{4}$`)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validForm() *entity.RegistrationForm {
	return &entity.RegistrationForm{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "+1 555-1234",
		Branch:   "Computer Science",
		City:     "Delhi",
		Country:  "India",
	}
}

func newTestCore(store *database.InMemory) *Core {
	log := discardLogger()
	return New(store, issuer.New(store, 0, log), log)
}

// stubStore lets individual operations be overridden; any unexpected call
// fails the test.
type stubStore struct {
	t          *testing.T
	codeExists func(ctx context.Context, code string) (bool, error)
	create     func(ctx context.Context, reg *entity.Registration) error
}

func (s *stubStore) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	if s.codeExists == nil {
		s.t.Fatal("unexpected ReferralCodeExists call")
	}
	return s.codeExists(ctx, code)
}

func (s *stubStore) CreateRegistration(ctx context.Context, reg *entity.Registration) error {
	if s.create == nil {
		s.t.Fatal("unexpected CreateRegistration call")
	}
	return s.create(ctx, reg)
}

func (s *stubStore) CountStats(context.Context) (*entity.Stats, error) {
	s.t.Fatal("unexpected CountStats call")
	return nil, nil
}

func (s *stubStore) CountByCountry(context.Context) ([]*entity.CountryCount, error) {
	s.t.Fatal("unexpected CountByCountry call")
	return nil, nil
}

func (s *stubStore) ListRegistrations(context.Context) ([]*entity.Registration, error) {
	s.t.Fatal("unexpected ListRegistrations call")
	return nil, nil
}

func TestSubmitSuccess(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	reg, err := c.SubmitRegistration(context.Background(), validForm())
	require.NoError(t, err)
	assert.Regexp(t, codeRx, reg.ReferralCode)
	assert.Equal(t, "jane@x.com", reg.Email)
	assert.NotEmpty(t, reg.Id)
	assert.False(t, reg.CreatedAt.IsZero())
	assert.True(t, store.FindByEmail("jane@x.com"))
}

func TestSubmitDuplicateEmail(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	_, err := c.SubmitRegistration(context.Background(), validForm())
	require.NoError(t, err)

	// same address in a different case collides after normalization
	form := validForm()
	form.Email = "JANE@X.com"
	_, err = c.SubmitRegistration(context.Background(), form)
	require.ErrorIs(t, err, entity.ErrDuplicateEmail)

	stats, err := store.CountStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Registrations, "failed insert must not add a row")
}

func TestSubmitInvalidFormSkipsStore(t *testing.T) {
	store := &stubStore{t: t} // every store call fails the test
	log := discardLogger()
	c := New(store, issuer.New(store, 0, log), log)

	form := validForm()
	form.Email = "not-an-email"
	_, err := c.SubmitRegistration(context.Background(), form)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Fields, 1)
	assert.Contains(t, validationErr.Fields, "email")
}

func TestSubmitIssuanceExhausted(t *testing.T) {
	store := &stubStore{
		t: t,
		codeExists: func(context.Context, string) (bool, error) {
			return true, nil // every candidate is taken
		},
	}
	log := discardLogger()
	c := New(store, issuer.New(store, 0, log), log)

	_, err := c.SubmitRegistration(context.Background(), validForm())
	require.ErrorIs(t, err, entity.ErrIssuanceExhausted)
}

func TestSubmitReferralCodeRace(t *testing.T) {
	// the pre-check reports the code free, the insert still collides
	store := &stubStore{
		t: t,
		codeExists: func(context.Context, string) (bool, error) {
			return false, nil
		},
		create: func(context.Context, *entity.Registration) error {
			return entity.ErrDuplicateReferralCode
		},
	}
	log := discardLogger()
	c := New(store, issuer.New(store, 0, log), log)

	_, err := c.SubmitRegistration(context.Background(), validForm())
	require.ErrorIs(t, err, entity.ErrDuplicateReferralCode)
}

func TestSubmitUnknownOutcome(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// simulate the response never arriving: the deadline fires between the
	// uniqueness check and the observed insert result
	stub := &stubStore{
		t: t,
		codeExists: func(context.Context, string) (bool, error) {
			return false, nil
		},
		create: database.NewInMemory().CreateRegistration,
	}
	log := discardLogger()
	c := New(stub, issuer.New(stub, 0, log), log)

	_, err := c.SubmitRegistration(ctx, validForm())
	require.ErrorIs(t, err, entity.ErrUnknownOutcome)
}

type fakeNotifier struct {
	got chan *entity.Registration
	err error
}

func (n *fakeNotifier) RegistrationCreated(_ context.Context, reg *entity.Registration) error {
	if n.got != nil {
		n.got <- reg
	}
	return n.err
}

func TestSubmitDispatchesNotification(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	notifier := &fakeNotifier{got: make(chan *entity.Registration, 1)}
	c.AddNotifier(notifier)

	reg, err := c.SubmitRegistration(context.Background(), validForm())
	require.NoError(t, err)

	select {
	case got := <-notifier.got:
		assert.Equal(t, reg.ReferralCode, got.ReferralCode)
		assert.Equal(t, "jane@x.com", got.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not dispatched")
	}
}

func TestNotifyRegistrationReportsFailure(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	failing := &fakeNotifier{err: fmt.Errorf("smtp down")}
	working := &fakeNotifier{got: make(chan *entity.Registration, 1)}
	c.AddNotifier(failing)
	c.AddNotifier(working)

	reg := &entity.Registration{Email: "jane@x.com", ReferralCode: "ENG-AB12"}
	err := c.NotifyRegistration(context.Background(), reg)
	require.Error(t, err)

	// remaining channels still get the event
	select {
	case <-working.got:
	default:
		t.Fatal("second notifier was skipped")
	}
}

func TestWorldMapResolvesCodes(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	countriesIn := []string{"India", "India", "Atlantis"}
	for i := range emails {
		form := validForm()
		form.Email = emails[i]
		form.Country = countriesIn[i]
		_, err := c.SubmitRegistration(context.Background(), form)
		require.NoError(t, err)
	}

	points, err := c.WorldMap(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "India", points[0].Country)
	assert.Equal(t, "IN", points[0].Code)
	assert.EqualValues(t, 2, points[0].Count)
	assert.Empty(t, points[1].Code, "unrecognized country has no ISO code")
}

func TestStats(t *testing.T) {
	store := database.NewInMemory()
	c := newTestCore(store)

	cities := []string{"Delhi", "Delhi", "Pune"}
	for i, city := range cities {
		form := validForm()
		form.Email = fmt.Sprintf("user%d@x.com", i)
		form.City = city
		_, err := c.SubmitRegistration(context.Background(), form)
		require.NoError(t, err)
	}

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Registrations)
	assert.EqualValues(t, 2, stats.Cities)
	assert.EqualValues(t, 1, stats.Countries)
}

type stubUsers struct {
	user *entity.User
	err  error
}

func (s *stubUsers) GetUser(string) (*entity.User, error) {
	return s.user, s.err
}

func TestAuthenticateWithoutUserStore(t *testing.T) {
	c := newTestCore(database.NewInMemory())
	_, err := c.AuthenticateByToken("whatever")
	require.Error(t, err)
}

func TestAuthenticateByToken(t *testing.T) {
	c := newTestCore(database.NewInMemory())
	c.SetUserStore(&stubUsers{user: &entity.User{Username: "organizer", Token: "tok123"}})

	user, err := c.AuthenticateByToken("tok123")
	require.NoError(t, err)
	assert.Equal(t, "organizer", user.Username)
}

func TestAuthenticateRejectsMalformedUser(t *testing.T) {
	c := newTestCore(database.NewInMemory())
	c.SetUserStore(&stubUsers{user: &entity.User{Name: "No Username"}})

	_, err := c.AuthenticateByToken("tok123")
	require.Error(t, err)
}
