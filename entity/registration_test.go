package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "+1 555-1234",
		Branch:   "Computer Science",
		City:     "Delhi",
		Country:  "India",
	}
}

func TestValidateEmptyForm(t *testing.T) {
	form := RegistrationForm{}
	errs := form.Validate()

	require.Len(t, errs, 6)
	for _, field := range []string{"full_name", "email", "phone", "branch", "city", "country"} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "referral_code_used")
}

func TestValidateWhitespaceOnlyIsRequired(t *testing.T) {
	form := validForm()
	form.City = "   "
	errs := form.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "City is required.", errs["city"])
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"jane@x.com", true},
		{"jane.doe+tag@sub.example.org", true},
		{"not-an-email", false},
		{"missing@dot", false},
		{"has space@x.com", false},
		{"@x.com", false},
	}
	for _, tc := range cases {
		form := validForm()
		form.Email = tc.email
		errs := form.Validate()
		if tc.ok {
			assert.Empty(t, errs, "email %q should be accepted", tc.email)
		} else {
			require.Len(t, errs, 1, "email %q should be rejected", tc.email)
			assert.Equal(t, "Enter a valid email address.", errs["email"])
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+1 555-1234", true},
		{"+91 98765 43210", true},
		{"(044) 123-4567", false}, // cannot start with a parenthesis
		{"0441234567", true},
		{"12345", false},     // too short
		{"phone-me", false},  // letters
		{"+123456789012345678901", false}, // too long
	}
	for _, tc := range cases {
		form := validForm()
		form.Phone = tc.phone
		errs := form.Validate()
		if tc.ok {
			assert.Empty(t, errs, "phone %q should be accepted", tc.phone)
		} else {
			require.Len(t, errs, 1, "phone %q should be rejected", tc.phone)
			assert.Equal(t, "Enter a valid phone number.", errs["phone"])
		}
	}
}

func TestValidateBranch(t *testing.T) {
	form := validForm()
	form.Branch = "Astrology"
	errs := form.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "Please select a branch.", errs["branch"])

	for _, branch := range Branches {
		form.Branch = branch
		assert.Empty(t, form.Validate(), "branch %q should be accepted", branch)
	}
}

func TestValidateShortName(t *testing.T) {
	form := validForm()
	form.FullName = "J"
	errs := form.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "Name must be at least 2 characters.", errs["full_name"])
}

func TestValidateAllErrorsAtOnce(t *testing.T) {
	form := validForm()
	form.Email = "nope"
	form.Phone = "nope"
	errs := form.Validate()
	assert.Len(t, errs, 2)
}

func TestRegistrationNormalization(t *testing.T) {
	form := RegistrationForm{
		FullName:         "  Jane Doe  ",
		Email:            " Jane@X.COM ",
		Phone:            " +1 555-1234 ",
		Branch:           "Computer Science",
		City:             " Delhi ",
		Country:          " India ",
		ReferralCodeUsed: "   ",
	}
	require.Empty(t, form.Validate())

	reg := form.Registration()
	assert.Equal(t, "Jane Doe", reg.FullName)
	assert.Equal(t, "jane@x.com", reg.Email)
	assert.Equal(t, "+1 555-1234", reg.Phone)
	assert.Equal(t, "Delhi", reg.City)
	assert.Equal(t, "India", reg.Country)
	assert.Empty(t, reg.ReferralCodeUsed, "blank referral code must normalize to absent")
}

func TestReferralCodeUsedKept(t *testing.T) {
	form := validForm()
	form.ReferralCodeUsed = " ENG-7H2K "
	reg := form.Registration()
	assert.Equal(t, "ENG-7H2K", reg.ReferralCodeUsed)
}

func TestFirstName(t *testing.T) {
	reg := Registration{FullName: "Jane Doe"}
	assert.Equal(t, "Jane", reg.FirstName())

	reg.FullName = "Madonna"
	assert.Equal(t, "Madonna", reg.FirstName())
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "IN", CountryCode("India"))
	assert.Equal(t, "PL", CountryCode("Poland"))
	assert.Equal(t, "DE", CountryCode("DE"))
	assert.Empty(t, CountryCode("Atlantis"))
	assert.Empty(t, CountryCode(""))
}
