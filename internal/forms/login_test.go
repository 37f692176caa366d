package forms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqrts/internal/session"
	"sqrts/internal/validation"
)

func TestLoginSuccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	registered(t, e)
	require.NoError(t, session.Clear(e.store))
	require.NoError(t, session.SetGuest(e.store, true))

	f := NewLoginForm(e.deps)
	f.Email, f.Password = "alice@x.com", "Passw0rd!"
	require.NoError(t, f.Submit(ctx))

	u, err := session.Load(e.store)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)
	assert.NotEmpty(t, u.AccessToken)
	assert.True(t, u.IsAuthenticated)
	assert.False(t, session.IsGuest(e.store))
	assert.Equal(t, RouteHome, e.lastRoute())
}

func TestLoginValidation(t *testing.T) {
	e := newEnv(t)
	f := NewLoginForm(e.deps)
	f.Email = "not-an-email"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalidInput)
	assert.Equal(t, validation.MsgEmailInvalid, f.Errors.Get(validation.FieldEmail))
	assert.Equal(t, validation.MsgPasswordRequired, f.Errors.Get(validation.FieldPassword))
	assert.Equal(t, validation.MsgCorrectErrorsBanner, f.Banner)
}

func TestLoginFailureClearsPassword(t *testing.T) {
	e := newEnv(t)
	registered(t, e)

	f := NewLoginForm(e.deps)
	f.Email, f.Password = "alice@x.com", "Wrong0ne!"
	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgLoginFailed, f.Banner)
	assert.Empty(t, f.Password)
	assert.Equal(t, "alice@x.com", f.Email)
	assert.False(t, f.Loading)
}

func TestLoginNetworkFailure(t *testing.T) {
	e := newDeadEnv(t)
	f := NewLoginForm(e.deps)
	f.Email, f.Password = "alice@x.com", "Passw0rd!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgLoginFailed, f.Banner)
	assert.False(t, f.Loading)
	assert.Empty(t, e.routes)
}
