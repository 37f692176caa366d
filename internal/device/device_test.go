package device

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqrts/internal/session"
)

func withProbe(t *testing.T, ids []string, err error) {
	t.Helper()
	orig := probe
	probe = func() ([]string, error) { return ids, err }
	t.Cleanup(func() { probe = orig })
}

func TestFingerprintHashesHardwareID(t *testing.T) {
	withProbe(t, []string{"4C4C4544-0031-3510-8052-B4C04F4E3732"}, nil)
	fp, err := Fingerprint()
	require.NoError(t, err)
	assert.Len(t, fp, 32)
	assert.NotContains(t, fp, "4C4C4544")

	again, err := Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp, again)
}

func TestIDIsStoredOnce(t *testing.T) {
	withProbe(t, []string{"hw-1"}, nil)
	s := session.NewMemoryStore()

	id, err := ID(s)
	require.NoError(t, err)
	fp, _ := Fingerprint()
	assert.Equal(t, fp, id)

	withProbe(t, []string{"hw-2"}, nil)
	again, err := ID(s)
	require.NoError(t, err)
	assert.Equal(t, id, again, "stored id wins over a changed probe")
}

func TestIDFallsBackToUUID(t *testing.T) {
	withProbe(t, nil, errors.New("no access"))
	s := session.NewMemoryStore()

	id, err := ID(s)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	stored, ok, err := s.GetItem(KeyDeviceID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, stored)
}
