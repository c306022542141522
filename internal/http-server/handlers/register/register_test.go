package register

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunion/entity"
)

type stubCore struct {
	reg  *entity.Registration
	err  error
	form *entity.RegistrationForm
}

func (s *stubCore) SubmitRegistration(_ context.Context, form *entity.RegistrationForm) (*entity.Registration, error) {
	s.form = form
	return s.reg, s.err
}

type envelope struct {
	Data          map[string]interface{} `json:"data"`
	Errors        map[string]string      `json:"errors"`
	Success       bool                   `json:"success"`
	StatusMessage string                 `json:"status_message"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doSubmit(t *testing.T, core Core, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	Submit(discardLogger(), core)(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSubmitCreated(t *testing.T) {
	stub := &stubCore{reg: &entity.Registration{
		Id:           "7b8e1a9c",
		FullName:     "Jane Doe",
		Email:        "jane@x.com",
		ReferralCode: "ENG-AB12",
		CreatedAt:    time.Now().UTC(),
	}}

	rec, env := doSubmit(t, stub, `{"full_name":"Jane Doe","email":"jane@x.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "ENG-AB12", env.Data["referral_code"])
	require.NotNil(t, stub.form)
	assert.Equal(t, "jane@x.com", stub.form.Email)
}

func TestSubmitValidationErrors(t *testing.T) {
	stub := &stubCore{err: &entity.ValidationError{Fields: map[string]string{
		"email": "Enter a valid email address.",
		"phone": "Phone number is required.",
	}}}

	rec, env := doSubmit(t, stub, `{"email":"nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.Len(t, env.Errors, 2)
	assert.Equal(t, "Enter a valid email address.", env.Errors["email"])
}

func TestSubmitDuplicateEmail(t *testing.T) {
	stub := &stubCore{err: entity.ErrDuplicateEmail}

	rec, env := doSubmit(t, stub, `{"email":"jane@x.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "This email is already registered.", env.StatusMessage)
}

func TestSubmitTransientFailures(t *testing.T) {
	for _, err := range []error{entity.ErrDuplicateReferralCode, entity.ErrIssuanceExhausted} {
		stub := &stubCore{err: err}
		rec, env := doSubmit(t, stub, `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Something went wrong. Please try again.", env.StatusMessage)
	}
}

func TestSubmitUnknownOutcome(t *testing.T) {
	stub := &stubCore{err: entity.ErrUnknownOutcome}

	rec, env := doSubmit(t, stub, `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, env.StatusMessage, "could not confirm")
}

func TestSubmitStoreError(t *testing.T) {
	stub := &stubCore{err: &entity.StoreError{Message: "server has gone away"}}

	rec, env := doSubmit(t, stub, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "server has gone away", env.StatusMessage)
}

func TestSubmitBadPayload(t *testing.T) {
	rec, env := doSubmit(t, &stubCore{}, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestBranches(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/branches", nil)
	rec := httptest.NewRecorder()
	Branches(discardLogger())(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, entity.Branches, env.Data)
}
