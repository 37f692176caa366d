package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sqrts/internal/apiclient"
)

// RefreshSkew is how long before expiry a token is treated as stale.
const RefreshSkew = time.Minute

// TokenExpiry reads the exp claim of a JWT without verifying the signature.
// The client never holds the signing key; the server still verifies.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// NeedsRefresh reports whether the access token is missing, unreadable or
// expires within RefreshSkew of now.
func NeedsRefresh(u *UserData, now time.Time) bool {
	if u == nil || u.AccessToken == "" {
		return true
	}
	exp, err := TokenExpiry(u.AccessToken)
	if err != nil {
		return true
	}
	return !now.Add(RefreshSkew).Before(exp)
}

// Refresher renews stored tokens through the API.
type Refresher struct {
	Client *apiclient.Client
	Store  Store
	Now    func() time.Time
}

// Refresh exchanges the stored refresh token and overwrites the stored pair.
// With force false it does nothing while the access token is still fresh.
func (r *Refresher) Refresh(ctx context.Context, force bool) (*UserData, error) {
	u, err := Load(r.Store)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if !force && !NeedsRefresh(u, now()) {
		return u, nil
	}
	if u.RefreshToken == "" {
		return nil, errors.New("no refresh token stored")
	}
	out, err := r.Client.Refresh(ctx, u.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	u.AccessToken = out.AccessToken
	if out.RefreshToken != "" {
		u.RefreshToken = out.RefreshToken
	}
	if err := Save(r.Store, u); err != nil {
		return nil, err
	}
	return u, nil
}
