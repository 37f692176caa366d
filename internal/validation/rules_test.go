package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Abcdef1!":          true,
		"Str0ng&Secure":     true,
		"aB3$aB3$":          true,
		"Abcde1!":           false, // too short
		"abcdef1!":          false, // no uppercase
		"ABCDEF1!":          false, // no lowercase
		"Abcdefg!":          false, // no digit
		"Abcdefg1":          false, // no special
		"Abcdef1#":          false, // '#' is not an accepted special
		"Abcdef1! ":         false, // space not allowed
		"Ábcdef1!":          false,
		"":                  false,
		"Password123?Extra": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsStrongPassword(in), "password %q", in)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"81234567", "91234567", "80000000", "99999999"}
	for _, p := range valid {
		assert.True(t, IsValidPhoneNumber(p), p)
	}
	invalid := []string{"", "71234567", "8123456", "812345678", "8123456a", "+6581234567", " 81234567"}
	for _, p := range invalid {
		assert.False(t, IsValidPhoneNumber(p), p)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"rider@example.com", "a.b_c%d+e-f@sub.domain.sg", "X@Y.io"}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	invalid := []string{"", "rider", "rider@", "rider@example", "rider@example.c", "@example.com", "ri der@example.com"}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidOTP(t *testing.T) {
	assert.True(t, IsValidOTP("012345"))
	assert.False(t, IsValidOTP("12345"))
	assert.False(t, IsValidOTP("1234567"))
	assert.False(t, IsValidOTP("12a456"))
}

func TestResult(t *testing.T) {
	var r Result
	assert.True(t, r.Valid())
	assert.Empty(t, r.Get(FieldEmail))

	r.Set(FieldEmail, MsgEmailInvalid)
	r.Set(FieldPassword, MsgPasswordRequired)
	assert.False(t, r.Valid())
	assert.True(t, r.Has(FieldEmail))
	assert.Equal(t, []string{FieldEmail, FieldPassword}, r.Fields())

	m := r.Map()
	m[FieldEmail] = "mutated"
	assert.Equal(t, MsgEmailInvalid, r.Get(FieldEmail))

	r.Set(FieldEmail, "")
	assert.False(t, r.Has(FieldEmail))

	r.Reset()
	assert.True(t, r.Valid())
}
