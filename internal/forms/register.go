package forms

import (
	"context"
	"fmt"

	"sqrts/internal/apiclient"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

const MsgRegistrationFailed = "Registration failed. Please try again."

// UserProps is what the registration form hands to the OTP dialog.
type UserProps struct {
	UserName    string
	PhoneNumber string
	Email       string
	Password    string
	Role        string
}

// RegistrationForm is the sign-up screen.
type RegistrationForm struct {
	Deps

	Username    string
	PhoneNumber string
	Email       string
	Password    string

	Errors  validation.Result
	Banner  string
	Success bool
	Loading bool

	// ShowOTP opens the OTP dialog; OTP is its controller.
	ShowOTP bool
	OTP     *OTPForm
}

func NewRegistrationForm(d Deps) *RegistrationForm {
	return &RegistrationForm{Deps: d}
}

// Validate refreshes Errors and Banner and reports whether the form may be submitted.
func (f *RegistrationForm) Validate() bool {
	f.Errors = validation.ValidateRegistration(validation.Registration{
		Username:    f.Username,
		PhoneNumber: f.PhoneNumber,
		Email:       f.Email,
		Password:    f.Password,
	})
	if f.Errors.Valid() {
		f.Banner = ""
		return true
	}
	f.Banner = validation.MsgCorrectErrorsBanner
	return false
}

// Submit validates, registers, stores the session and opens the OTP dialog.
// On an API failure every field is cleared and a generic banner is shown.
func (f *RegistrationForm) Submit(ctx context.Context) error {
	f.Loading = true
	defer func() { f.Loading = false }()

	if !f.Validate() {
		return ErrInvalidInput
	}

	props := UserProps{
		UserName:    f.Username,
		PhoneNumber: f.PhoneNumber,
		Email:       f.Email,
		Password:    f.Password,
		Role:        apiclient.RoleUser,
	}

	err := f.register(ctx, props)
	if err != nil {
		f.logger().Errorf("registration: %v", err)
		f.Banner = MsgRegistrationFailed
		f.Success = false
		f.Username, f.PhoneNumber, f.Email, f.Password = "", "", "", ""
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	f.Success = true
	f.Banner = ""
	f.openOTP(props)
	return nil
}

func (f *RegistrationForm) register(ctx context.Context, p UserProps) error {
	resp, err := f.Client.Register(ctx, apiclient.RegistrationData{
		UserName:    p.UserName,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
		Password:    p.Password,
		Role:        p.Role,
	})
	if err != nil {
		return err
	}
	return session.Save(f.Store, sessionFromAuth(resp, p.Email, p.Role))
}

func (f *RegistrationForm) openOTP(p UserProps) {
	f.OTP = NewOTPForm(f.Deps, p)
	f.ShowOTP = true
}

// CloseOTP hides the OTP dialog.
func (f *RegistrationForm) CloseOTP() { f.ShowOTP = false }

// ContinueAsGuest marks the session as a guest and goes home.
func (f *RegistrationForm) ContinueAsGuest() error {
	if err := session.SetGuest(f.Store, true); err != nil {
		return err
	}
	f.navigate(RouteHome)
	return nil
}
