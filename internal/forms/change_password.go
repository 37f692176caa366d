package forms

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sqrts/internal/apiclient"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

const (
	MsgPasswordChangeFailed = "Password change failed. Please try again."
	// MsgWrongPassword is matched verbatim against the server's ResponseMsg.
	MsgWrongPassword = "Wrong password"
)

// ChangePasswordForm is the change-password screen.
type ChangePasswordForm struct {
	Deps

	// Email is read-only and comes from the stored session.
	Email           string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string

	Errors      validation.Result
	Banner      string
	Loading     bool
	ShowSuccess bool
}

func NewChangePasswordForm(d Deps) *ChangePasswordForm {
	return &ChangePasswordForm{Deps: d}
}

// Mount loads the signed-in email. A missing session leaves Email empty.
func (f *ChangePasswordForm) Mount() error {
	u, err := session.Load(f.Store)
	if errors.Is(err, session.ErrNoSession) {
		f.Email = ""
		return nil
	}
	if err != nil {
		return err
	}
	f.Email = u.Email
	return nil
}

// Validate refreshes Errors and reports whether the form may be submitted.
func (f *ChangePasswordForm) Validate() bool {
	f.Errors = validation.ValidatePasswordChange(validation.PasswordChange{
		OldPassword:     f.OldPassword,
		NewPassword:     f.NewPassword,
		ConfirmPassword: f.ConfirmPassword,
	})
	return f.Errors.Valid()
}

// Submit sends the change. A "Wrong password" reply flags the old password;
// any status other than 200 shows the generic banner.
func (f *ChangePasswordForm) Submit(ctx context.Context) error {
	if !f.Validate() {
		return ErrInvalidInput
	}

	f.Loading = true
	defer func() { f.Loading = false }()
	f.Banner = ""

	resp, err := f.Client.ChangePassword(ctx, apiclient.ChangePasswordData{
		Email:                f.Email,
		CurrentPassword:      f.OldPassword,
		NewPassword:          f.NewPassword,
		ConfirmationPassword: f.ConfirmPassword,
	})
	if err != nil {
		f.logger().Errorf("password change: %v", err)
		f.Banner = MsgPasswordChangeFailed
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	wrong := resp.Field("ResponseMsg") == MsgWrongPassword
	if wrong {
		f.Errors.Set(validation.FieldOldPassword, MsgWrongPassword)
	}
	if resp.Status != http.StatusOK || wrong {
		f.Banner = MsgPasswordChangeFailed
		return fmt.Errorf("%w: status %d", ErrSubmitFailed, resp.Status)
	}

	f.ShowSuccess = true
	return nil
}

// DismissSuccess closes the confirmation dialog and goes home.
func (f *ChangePasswordForm) DismissSuccess() {
	f.ShowSuccess = false
	f.navigate(RouteHome)
}
