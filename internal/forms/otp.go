package forms

import (
	"context"
	"fmt"
	"net/http"

	"sqrts/internal/apiclient"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

const (
	MsgOTPFailed     = "OTP verification failed. Please try again."
	MsgOTPSent       = "OTP sent."
	MsgOTPSendFailed = "Failed to send OTP. Please try again."
)

// OTPForm verifies the one-time password sent after registration.
type OTPForm struct {
	Deps

	Props UserProps
	Code  string

	Errors   validation.Result
	Banner   string
	Notice   string
	Loading  bool
	Verified bool
}

func NewOTPForm(d Deps, props UserProps) *OTPForm {
	return &OTPForm{Deps: d, Props: props}
}

// Verify submits Code. On success the stored session is marked
// authenticated and the front-end goes home.
func (f *OTPForm) Verify(ctx context.Context) error {
	f.Loading = true
	defer func() { f.Loading = false }()
	f.Banner, f.Notice = "", ""

	f.Errors = validation.ValidateOTP(f.Code)
	if !f.Errors.Valid() {
		return ErrInvalidInput
	}

	resp, err := f.Client.ValidateOTP(ctx, apiclient.OTPData{
		Email:       f.Props.Email,
		PhoneNumber: f.Props.PhoneNumber,
		OTP:         f.Code,
	})
	if err == nil && resp.Status != http.StatusOK {
		err = &apiclient.HTTPError{Status: resp.Status, Body: resp.Body}
	}
	if err != nil {
		f.logger().Errorf("otp verification: %v", err)
		f.Banner = MsgOTPFailed
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	if u, err := session.Load(f.Store); err == nil && !u.IsAuthenticated {
		u.IsAuthenticated = true
		if err := session.Save(f.Store, u); err != nil {
			f.logger().Warnf("otp verification: store session: %v", err)
		}
	}
	f.Verified = true
	f.navigate(RouteHome)
	return nil
}

// Resend asks the server to send a new code.
func (f *OTPForm) Resend(ctx context.Context) error {
	f.Loading = true
	defer func() { f.Loading = false }()
	f.Banner, f.Notice = "", ""

	resp, err := f.Client.SendOTP(ctx, apiclient.OTPData{
		Email:       f.Props.Email,
		PhoneNumber: f.Props.PhoneNumber,
	})
	if err == nil && !resp.OK() {
		err = &apiclient.HTTPError{Status: resp.Status, Body: resp.Body}
	}
	if err != nil {
		f.logger().Errorf("send otp: %v", err)
		f.Banner = MsgOTPSendFailed
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	f.Notice = MsgOTPSent
	return nil
}
