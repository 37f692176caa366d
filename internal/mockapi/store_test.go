package mockapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	s := NewUserStore()
	u, err := s.Create("alice", "Alice@x.com", "81234567", "ROLE_USER", "Passw0rd!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.ID, "u--"))
	assert.NotEqual(t, "Passw0rd!", u.PasswordHash)

	_, err = s.Create("alice2", "alice@x.com", "81234568", "ROLE_USER", "Passw0rd!")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = s.Authenticate("alice@x.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate("ghost@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.SetPassword("alice@x.com", "N3wPassw0rd!"))
	_, err = s.Authenticate("alice@x.com", "N3wPassw0rd!")
	assert.NoError(t, err)

	require.NoError(t, s.MarkVerified("alice@x.com"))
	got, err := s.Get("ALICE@x.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	assert.ErrorIs(t, s.MarkVerified("ghost@x.com"), ErrUserNotFound)
	assert.Len(t, s.List(), 1)
}

func TestTicketStore(t *testing.T) {
	s := NewTicketStore()
	a := s.Add(Ticket{Email: "a@x.com", RouteID: "EW", FareType: "ADULT", Quantity: 1})
	s.Add(Ticket{Email: "b@x.com", RouteID: "10", FareType: "ADULT", Quantity: 1})
	assert.Equal(t, TicketActive, a.Status)
	assert.Equal(t, "SQRTS:"+a.ID, a.QRData)

	mine := s.ForEmail("A@x.com")
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	_, err := s.Refund(a.ID, "b@x.com")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	r, err := s.Refund(a.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, TicketRefunded, r.Status)

	_, err = s.Refund(a.ID, "a@x.com")
	assert.ErrorIs(t, err, ErrTicketRefunded)
}

func TestCatalog(t *testing.T) {
	f, ok := findFare(ModeTrain, "EW", "")
	require.True(t, ok)
	assert.Equal(t, "ADULT", f.FareType)
	assert.Equal(t, 2.10, f.Amount)

	s, ok := lookupFare("10", "STUDENT")
	require.True(t, ok)
	assert.Equal(t, 0.95, s.Amount)

	_, ok = lookupFare("ZZ", "ADULT")
	assert.False(t, ok)
	assert.Len(t, faresFor(ModeBus), len(routes[ModeBus])*len(fareTypes))
}
