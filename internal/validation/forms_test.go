package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name string
		in   Registration
		want map[string]string
	}{
		{
			name: "valid input",
			in:   Registration{Username: "Tan Ah Kow", PhoneNumber: "91234567", Email: "tan@example.com", Password: "Abcdef1!"},
			want: map[string]string{},
		},
		{
			name: "all fields missing",
			in:   Registration{},
			want: map[string]string{
				FieldUsername:    MsgUsernameRequired,
				FieldPhoneNumber: MsgPhoneRequired,
				FieldEmail:       MsgEmailRequired,
				FieldPassword:    MsgPasswordRequired,
			},
		},
		{
			name: "malformed fields",
			in:   Registration{Username: "x", PhoneNumber: "61234567", Email: "tan@", Password: "password"},
			want: map[string]string{
				FieldPhoneNumber: MsgPhoneInvalid,
				FieldEmail:       MsgEmailInvalid,
				FieldPassword:    MsgPasswordWeak,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateRegistration(tt.in)
			assert.Equal(t, tt.want, r.Map())
			assert.Equal(t, len(tt.want) == 0, r.Valid())
		})
	}
}

func TestValidatePasswordChange(t *testing.T) {
	tests := []struct {
		name  string
		in    PasswordChange
		field string
		msg   string
	}{
		{"mismatch", PasswordChange{OldPassword: "Oldpass1!", NewPassword: "Abcdef1!", ConfirmPassword: "Abcdef2!"}, FieldNewPassword, MsgPasswordMismatch},
		{"weak new", PasswordChange{OldPassword: "Oldpass1!", NewPassword: "abcdefgh", ConfirmPassword: "abcdefgh"}, FieldNewPassword, MsgPasswordWeak},
		{"weak old", PasswordChange{OldPassword: "old", NewPassword: "Abcdef1!", ConfirmPassword: "Abcdef1!"}, FieldOldPassword, MsgPasswordWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidatePasswordChange(tt.in)
			assert.False(t, r.Valid())
			assert.Equal(t, []string{tt.field}, r.Fields())
			assert.Equal(t, tt.msg, r.Get(tt.field))
		})
	}

	r := ValidatePasswordChange(PasswordChange{OldPassword: "Oldpass1!", NewPassword: "Abcdef1!", ConfirmPassword: "Abcdef1!"})
	assert.True(t, r.Valid())
}

func TestValidateLoginAndOTP(t *testing.T) {
	r := ValidateLogin(Login{Email: "bad", Password: ""})
	assert.Equal(t, MsgEmailInvalid, r.Get(FieldEmail))
	assert.Equal(t, MsgPasswordRequired, r.Get(FieldPassword))

	r = ValidateLogin(Login{Email: "tan@example.com", Password: "anything"})
	assert.True(t, r.Valid())

	assert.True(t, ValidateOTP("123456").Valid())
	assert.Equal(t, MsgOTPInvalid, ValidateOTP("12").Get(FieldOTP))
}
