// Package validation holds the client-side form rules shared by the
// registration, login, OTP and password-change forms.
package validation

import (
	"regexp"
	"strings"
)

// Field names used as Result keys.
const (
	FieldUsername        = "username"
	FieldPhoneNumber     = "phoneNumber"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confirmPassword"
	FieldOTP             = "otp"
)

const (
	MsgUsernameRequired    = "Username is required."
	MsgPhoneRequired       = "Phone number is required."
	MsgPhoneInvalid        = "Invalid phone number. Must be 8 digits starting with 8 or 9."
	MsgEmailRequired       = "Email is required."
	MsgEmailInvalid        = "Invalid email format."
	MsgPasswordRequired    = "Password is required."
	MsgPasswordWeak        = "Password must contain at least 8 characters, including uppercase, lowercase, numbers, and special characters."
	MsgPasswordMismatch    = "New password and confirm password do not match."
	MsgOTPInvalid          = "OTP must be 6 digits."
	MsgCorrectErrorsBanner = "Please correct the errors above."
)

// PasswordSpecials are the accepted special characters.
const PasswordSpecials = "@$!%*?&"

// MinPasswordLength is the minimum password length.
const MinPasswordLength = 8

var (
	phoneRe    = regexp.MustCompile(`^[8-9]\d{7}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	otpRe      = regexp.MustCompile(`^\d{6}$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`\d`)
	specialRe  = regexp.MustCompile(`[@$!%*?&]`)
)

// IsStrongPassword reports whether p has at least 8 characters drawn only from
// letters, digits and PasswordSpecials, with at least one of each class.
func IsStrongPassword(p string) bool {
	return passwordRe.MatchString(p) &&
		lowerRe.MatchString(p) &&
		upperRe.MatchString(p) &&
		digitRe.MatchString(p) &&
		specialRe.MatchString(p)
}

// IsValidPhoneNumber accepts exactly 8 digits starting with 8 or 9.
func IsValidPhoneNumber(s string) bool { return phoneRe.MatchString(s) }

// IsValidEmail is a local@domain.tld shape check.
func IsValidEmail(s string) bool { return emailRe.MatchString(s) }

// IsValidOTP accepts exactly six digits.
func IsValidOTP(s string) bool { return otpRe.MatchString(s) }

// IsPresent reports a non-empty value. Whitespace counts as content.
func IsPresent(s string) bool { return s != "" }

// Normalize trims surrounding whitespace from terminal input.
func Normalize(s string) string { return strings.TrimSpace(s) }
