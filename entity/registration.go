package entity

import (
	"net/http"
	"strings"
	"time"

	"reunion/lib/validate"
)

// Branches is the closed list of engineering disciplines offered on the
// registration form. The oneof rule on RegistrationForm.Branch must stay in
// sync with this list.
var Branches = []string{
	"Computer Science",
	"Information Technology",
	"Electronics & Communication",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Chemical Engineering",
	"Biotechnology",
}

// Registration is one alumnus's signup record. Rows are created exactly once
// by the submission pipeline and never updated or deleted afterwards.
// ReferralCode and Email are unique across all registrations; the store
// enforces both constraints as the final authority.
type Registration struct {
	Id               string    `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Branch           string    `json:"branch"`
	City             string    `json:"city"`
	Country          string    `json:"country"`
	ReferralCode     string    `json:"referral_code"`
	ReferralCodeUsed string    `json:"referral_code_used,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// FirstName returns the part of FullName before the first space,
// used for the greeting in the confirmation email.
func (r *Registration) FirstName() string {
	name := strings.TrimSpace(r.FullName)
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// RegistrationForm is the raw user-submitted payload of POST /register.
// Values are validated and normalized before anything touches the store.
type RegistrationForm struct {
	FullName         string `json:"full_name" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,emailshape"`
	Phone            string `json:"phone" validate:"required,phone"`
	Branch           string `json:"branch" validate:"required,oneof='Computer Science' 'Information Technology' 'Electronics & Communication' 'Electrical Engineering' 'Mechanical Engineering' 'Civil Engineering' 'Chemical Engineering' 'Biotechnology'"`
	City             string `json:"city" validate:"required"`
	Country          string `json:"country" validate:"required"`
	ReferralCodeUsed string `json:"referral_code_used"`
}

func (f *RegistrationForm) Bind(_ *http.Request) error {
	return nil
}

// Trimmed returns a copy of the form with surrounding whitespace removed
// from every field. Validation always runs on the trimmed values.
func (f RegistrationForm) Trimmed() RegistrationForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Branch = strings.TrimSpace(f.Branch)
	f.City = strings.TrimSpace(f.City)
	f.Country = strings.TrimSpace(f.Country)
	f.ReferralCodeUsed = strings.TrimSpace(f.ReferralCodeUsed)
	return f
}

// Validate checks all fields together and returns a map of json field name
// to a user-facing message for every field that failed. An empty map means
// the form may be submitted. The optional referral_code_used is free text
// and never produces an error.
func (f *RegistrationForm) Validate() map[string]string {
	trimmed := f.Trimmed()
	failed := validate.Fields(&trimmed)
	msgs := make(map[string]string, len(failed))
	for field, rule := range failed {
		msgs[field] = fieldMessage(field, rule)
	}
	return msgs
}

// Registration builds the record to persist: fields trimmed, email
// lower-cased, empty referral_code_used normalized to absent. Id, code and
// timestamps are filled in later by the pipeline and the store.
func (f *RegistrationForm) Registration() *Registration {
	trimmed := f.Trimmed()
	return &Registration{
		FullName:         trimmed.FullName,
		Email:            strings.ToLower(trimmed.Email),
		Phone:            trimmed.Phone,
		Branch:           trimmed.Branch,
		City:             trimmed.City,
		Country:          trimmed.Country,
		ReferralCodeUsed: trimmed.ReferralCodeUsed,
	}
}

func fieldMessage(field, rule string) string {
	switch field {
	case "full_name":
		if rule == "required" {
			return "Full name is required."
		}
		return "Name must be at least 2 characters."
	case "email":
		if rule == "required" {
			return "Email is required."
		}
		return "Enter a valid email address."
	case "phone":
		if rule == "required" {
			return "Phone number is required."
		}
		return "Enter a valid phone number."
	case "branch":
		return "Please select a branch."
	case "city":
		return "City is required."
	case "country":
		return "Country is required."
	}
	return "Invalid value."
}
