package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqrts/internal/apiclient"
	"sqrts/internal/session"
	"sqrts/internal/validation"
)

func mountedChangeForm(t *testing.T, e *env) *ChangePasswordForm {
	t.Helper()
	f := NewChangePasswordForm(e.deps)
	require.NoError(t, f.Mount())
	return f
}

func TestChangePasswordMountWithoutSession(t *testing.T) {
	e := newEnv(t)
	f := mountedChangeForm(t, e)
	assert.Empty(t, f.Email)
}

func TestChangePasswordMismatchBlocks(t *testing.T) {
	calls := 0
	e := newStubEnv(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "Abcdef1!", "Abcdef2!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalidInput)
	assert.Equal(t, validation.MsgPasswordMismatch, f.Errors.Get(validation.FieldNewPassword))
	assert.False(t, f.ShowSuccess)
	assert.Zero(t, calls)
}

func TestChangePasswordWeakPasswordsBlock(t *testing.T) {
	e := newEnv(t)
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "weakpass", "weakpass"
	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalidInput)
	assert.Equal(t, validation.MsgPasswordWeak, f.Errors.Get(validation.FieldNewPassword))

	f.OldPassword, f.NewPassword, f.ConfirmPassword = "old", "Abcdef1!", "Abcdef1!"
	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalidInput)
	assert.Equal(t, validation.MsgPasswordWeak, f.Errors.Get(validation.FieldOldPassword))
	assert.False(t, f.Errors.Has(validation.FieldNewPassword))
}

func TestChangePasswordWrongPassword(t *testing.T) {
	e := newEnv(t)
	registered(t, e)
	f := mountedChangeForm(t, e)
	require.Equal(t, "alice@x.com", f.Email)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Wr0ngPass!", "Abcdef1!", "Abcdef1!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgWrongPassword, f.Errors.Get(validation.FieldOldPassword))
	assert.Equal(t, MsgPasswordChangeFailed, f.Banner)
	assert.False(t, f.ShowSuccess)
	assert.False(t, f.Loading)
}

func TestChangePasswordWrongPasswordWithOKStatus(t *testing.T) {
	e := newStubEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"ResponseMsg": "Wrong password"})
	})
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "Abcdef1!", "Abcdef1!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgWrongPassword, f.Errors.Get(validation.FieldOldPassword))
	assert.False(t, f.ShowSuccess)
}

func TestChangePasswordNon200IsGenericFailure(t *testing.T) {
	e := newStubEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "Abcdef1!", "Abcdef1!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgPasswordChangeFailed, f.Banner)
	assert.False(t, f.Errors.Has(validation.FieldOldPassword))
	assert.False(t, f.ShowSuccess)
}

func TestChangePasswordSuccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	registered(t, e)
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "Abcdef1!", "Abcdef1!"

	require.NoError(t, f.Submit(ctx))
	assert.True(t, f.ShowSuccess)
	assert.Empty(t, f.Banner)
	assert.Empty(t, e.routes, "no navigation before dismissal")

	f.DismissSuccess()
	assert.False(t, f.ShowSuccess)
	assert.Equal(t, RouteHome, e.lastRoute())

	_, err := e.deps.Client.Login(ctx, apiclient.LoginData{Email: "alice@x.com", Password: "Abcdef1!"})
	assert.NoError(t, err)
}

func TestChangePasswordNetworkFailure(t *testing.T) {
	e := newDeadEnv(t)
	require.NoError(t, session.Save(e.store, &session.UserData{Email: "alice@x.com"}))
	f := mountedChangeForm(t, e)
	f.OldPassword, f.NewPassword, f.ConfirmPassword = "Passw0rd!", "Abcdef1!", "Abcdef1!"

	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitFailed)
	assert.Equal(t, MsgPasswordChangeFailed, f.Banner)
	assert.False(t, f.Loading)
	assert.False(t, f.ShowSuccess)
}
