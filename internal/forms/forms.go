// Package forms holds the headless form controllers behind the client's
// screens. Each controller owns its field values, per-field errors, a banner
// message and the flags that decide which branch of the screen is shown.
package forms

import (
	"errors"

	"sqrts/internal/apiclient"
	"sqrts/internal/logging"
	"sqrts/internal/session"
)

// RouteHome is where successful flows land.
const RouteHome = "/home"

// Navigator moves the front-end to route.
type Navigator func(route string)

var (
	// ErrInvalidInput means client-side validation blocked the submission.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSubmitFailed means the API call did not succeed.
	ErrSubmitFailed = errors.New("submission failed")
)

// Deps are shared by every form.
type Deps struct {
	Client   *apiclient.Client
	Store    session.Store
	Log      *logging.Logger
	Navigate Navigator
}

func (d Deps) navigate(route string) {
	if d.Navigate != nil {
		d.Navigate(route)
	}
}

func (d Deps) logger() *logging.Logger {
	if d.Log == nil {
		return logging.Discard()
	}
	return d.Log
}

// sessionFromAuth builds the stored record from an auth response. Fields the
// server left empty fall back to what the user submitted.
func sessionFromAuth(resp *apiclient.AuthResponse, email, role string) *session.UserData {
	u := &session.UserData{
		Email:           email,
		Role:            role,
		IsAuthenticated: true,
	}
	u.AccessToken = resp.AccessToken
	u.RefreshToken = resp.RefreshToken
	u.UserName = resp.UserName
	u.UserID = resp.UserID
	u.PhoneNumber = resp.PhoneNumber
	if resp.Email != "" {
		u.Email = resp.Email
	}
	if resp.Role != "" {
		u.Role = resp.Role
	}
	return u
}
