package validation

// Registration is the raw input of the sign-up form.
type Registration struct {
	Username    string
	PhoneNumber string
	Email       string
	Password    string
}

// ValidateRegistration checks every field and reports all failures at once.
func ValidateRegistration(in Registration) Result {
	var r Result

	if !IsPresent(in.Username) {
		r.Set(FieldUsername, MsgUsernameRequired)
	}

	switch {
	case !IsPresent(in.PhoneNumber):
		r.Set(FieldPhoneNumber, MsgPhoneRequired)
	case !IsValidPhoneNumber(in.PhoneNumber):
		r.Set(FieldPhoneNumber, MsgPhoneInvalid)
	}

	switch {
	case !IsPresent(in.Email):
		r.Set(FieldEmail, MsgEmailRequired)
	case !IsValidEmail(in.Email):
		r.Set(FieldEmail, MsgEmailInvalid)
	}

	switch {
	case !IsPresent(in.Password):
		r.Set(FieldPassword, MsgPasswordRequired)
	case !IsStrongPassword(in.Password):
		r.Set(FieldPassword, MsgPasswordWeak)
	}

	return r
}

// PasswordChange is the raw input of the change-password form.
type PasswordChange struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ValidatePasswordChange stops at the first failing rule: mismatch, then new
// password strength, then old password strength.
func ValidatePasswordChange(in PasswordChange) Result {
	var r Result
	switch {
	case in.NewPassword != in.ConfirmPassword:
		r.Set(FieldNewPassword, MsgPasswordMismatch)
	case !IsStrongPassword(in.NewPassword):
		r.Set(FieldNewPassword, MsgPasswordWeak)
	case !IsStrongPassword(in.OldPassword):
		r.Set(FieldOldPassword, MsgPasswordWeak)
	}
	return r
}

// Login is the raw input of the sign-in form.
type Login struct {
	Email    string
	Password string
}

func ValidateLogin(in Login) Result {
	var r Result
	switch {
	case !IsPresent(in.Email):
		r.Set(FieldEmail, MsgEmailRequired)
	case !IsValidEmail(in.Email):
		r.Set(FieldEmail, MsgEmailInvalid)
	}
	if !IsPresent(in.Password) {
		r.Set(FieldPassword, MsgPasswordRequired)
	}
	return r
}

func ValidateOTP(code string) Result {
	var r Result
	if !IsValidOTP(code) {
		r.Set(FieldOTP, MsgOTPInvalid)
	}
	return r
}
