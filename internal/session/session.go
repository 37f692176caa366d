// Package session persists the signed-in user's identity and tokens between
// runs of the client.
package session

import (
	"encoding/json"
	"errors"
)

// Storage keys. A store holds string values under these keys.
const (
	KeyUserData = "sessionUserData"
	KeyGuest    = "isGuest"
)

// ErrNoSession is returned by Load when nothing has been stored.
var ErrNoSession = errors.New("no session stored")

// UserData is the persisted session record.
type UserData struct {
	Email           string `json:"email"`
	UserName        string `json:"userName"`
	Role            string `json:"role"`
	PhoneNumber     string `json:"phoneNumber"`
	UserID          string `json:"userId"`
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Store is a tiny key/value surface over string values plus typed helpers.
type Store interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Load reads the session record from s.
func Load(s Store) (*UserData, error) {
	raw, ok, err := s.GetItem(KeyUserData)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, ErrNoSession
	}
	var u UserData
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Save overwrites the session record in s.
func Save(s Store, u *UserData) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.SetItem(KeyUserData, string(b))
}

// Clear removes the session record.
func Clear(s Store) error { return s.RemoveItem(KeyUserData) }

// SetGuest stores or removes the guest flag.
func SetGuest(s Store, guest bool) error {
	if guest {
		return s.SetItem(KeyGuest, "true")
	}
	return s.RemoveItem(KeyGuest)
}

// IsGuest reports whether the guest flag is set.
func IsGuest(s Store) bool {
	v, ok, err := s.GetItem(KeyGuest)
	return err == nil && ok && v == "true"
}

// Tokens adapts a Store to apiclient.TokenSource.
type Tokens struct{ Store Store }

func (t Tokens) AccessToken() string {
	u, err := Load(t.Store)
	if err != nil {
		return ""
	}
	return u.AccessToken
}
