// Package session owns the durable client session: the access/refresh
// credential pair and the cached user profile.
package session

import (
	"context"
	"errors"

	"bookoracle/pkg/domain"
)

// ErrNoSession is returned when no usable session exists. A partially
// written session (any of the three fields missing) is reported the same
// way rather than surfaced as corrupt state.
var ErrNoSession = errors.New("no session")

// Session pairs both credentials with the cached profile. All three are
// written together on login/register and removed together on logout.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
}

// Store persists the current session across application restarts.
//
// Credential writes happen on login/register (Save), token refresh
// (SetAccessToken) and logout (Clear). The cached profile is replaced only
// with authoritative server data via UpdateProfile. Writers are not
// synchronized beyond last-write-wins: every write replaces fields with
// server-confirmed values, never merges.
type Store interface {
	Save(ctx context.Context, s Session) error
	Current(ctx context.Context) (Session, error)
	SetAccessToken(ctx context.Context, access string) error
	UpdateProfile(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}
