package service

import (
	"regexp"
	"unicode/utf8"
)

const minPasswordLength = 6

const (
	MsgInvalidEmail    = "Invalid email address"
	MsgPasswordTooWeak = "Password must be at least 6 characters"
	MsgInvalidPhone    = "Invalid phone number (10 digits required)"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

type FormData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLength
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateForm reports problems in a fixed order: email, password, phone.
// The phone is only checked when present.
func ValidateForm(form FormData) []string {
	errs := []string{}
	if !ValidateEmail(form.Email) {
		errs = append(errs, MsgInvalidEmail)
	}
	if !ValidatePassword(form.Password) {
		errs = append(errs, MsgPasswordTooWeak)
	}
	if form.Phone != "" && !ValidatePhone(form.Phone) {
		errs = append(errs, MsgInvalidPhone)
	}
	return errs
}
