// Package session turns an identity-provider access token into the
// per-request Session carried in the request context.
package session

import (
	"context"

	"github.com/jrose1022/SubTrack/internal/models"
)

// Identity is what the identity provider vouches for.
type Identity struct {
	AuthID string
	Email  string
}

// Session is the caller's resolved profile for the lifetime of one request.
type Session struct {
	UserID  string
	AuthID  string
	Email   string
	Name    string
	IsAdmin bool
	Status  models.UserStatus
}

func FromUser(u models.User) Session {
	return Session{
		UserID:  u.ID,
		AuthID:  u.AuthID,
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: u.IsAdmin,
		Status:  u.Status,
	}
}

type sessionKey struct{}
type identityKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
