// Package validate checks the registration, login and checkout forms before
// they are submitted, and scores passwords as they are typed.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"restaurant-cart/notify"
)

const MinPasswordLength = 8

// Failure messages shown to the user.
const (
	MsgInvalidEmail     = "Please enter a valid email address!"
	MsgPasswordTooShort = "Password must be at least 8 characters long!"
	MsgPasswordMismatch = "Passwords do not match!"
	MsgFillAllFields    = "Please fill in all fields!"
	MsgDeliveryAddress  = "Please enter a delivery address!"
	MsgAgreeTerms       = "Please agree to the terms and conditions!"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether s looks like an email address.
func Email(s string) bool { return emailRe.MatchString(s) }

// Error is a failed form check. Field names the offending input.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(field, msg string) error { return &Error{Field: field, Message: msg} }

type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate returns the first failing check, in the order email, length,
// confirmation.
func (r Registration) Validate() error {
	if !Email(r.Email) {
		return fail("email", MsgInvalidEmail)
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return fail("password", MsgPasswordTooShort)
	}
	if r.Password != r.ConfirmPassword {
		return fail("confirm_password", MsgPasswordMismatch)
	}
	return nil
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l Login) Validate() error {
	if l.Email == "" {
		return fail("email", MsgFillAllFields)
	}
	if l.Password == "" {
		return fail("password", MsgFillAllFields)
	}
	return nil
}

type Checkout struct {
	DeliveryAddress string `json:"delivery_address"`
	TermsAgreed     bool   `json:"terms_agree"`
}

func (c Checkout) Validate() error {
	if strings.TrimSpace(c.DeliveryAddress) == "" {
		return fail("delivery_address", MsgDeliveryAddress)
	}
	if !c.TermsAgreed {
		return fail("terms_agree", MsgAgreeTerms)
	}
	return nil
}

// Notify sends a validation failure to sink at error level. It reports
// whether err was a validation failure.
func Notify(err error, sink notify.Sink) bool {
	var verr *Error
	if !errors.As(err, &verr) {
		return false
	}
	sink.Notify(verr.Message, notify.Error)
	return true
}

// ClampQuantity keeps a quantity input within [0, 10].
func ClampQuantity(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
