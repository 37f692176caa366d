package forms

import (
	"context"
	"fmt"

	"sqrts/internal/apiclient"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

const MsgLoginFailed = "Login failed. Please try again."

// LoginForm is the sign-in screen.
type LoginForm struct {
	Deps

	Email    string
	Password string

	Errors  validation.Result
	Banner  string
	Loading bool
}

func NewLoginForm(d Deps) *LoginForm {
	return &LoginForm{Deps: d}
}

func (f *LoginForm) Submit(ctx context.Context) error {
	f.Loading = true
	defer func() { f.Loading = false }()
	f.Banner = ""

	f.Errors = validation.ValidateLogin(validation.Login{Email: f.Email, Password: f.Password})
	if !f.Errors.Valid() {
		f.Banner = validation.MsgCorrectErrorsBanner
		return ErrInvalidInput
	}

	resp, err := f.Client.Login(ctx, apiclient.LoginData{Email: f.Email, Password: f.Password})
	if err == nil {
		err = session.Save(f.Store, sessionFromAuth(resp, f.Email, apiclient.RoleUser))
	}
	if err != nil {
		f.logger().Errorf("login: %v", err)
		f.Banner = MsgLoginFailed
		f.Password = ""
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if err := session.SetGuest(f.Store, false); err != nil {
		f.logger().Warnf("login: clear guest flag: %v", err)
	}
	f.navigate(RouteHome)
	return nil
}
