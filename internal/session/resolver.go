package session

import (
	"context"
	"fmt"

	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"go.uber.org/zap"
)

// Resolver loads the profile behind an identity, going through the cache.
type Resolver struct {
	users interfaces.UserStore
	cache interfaces.ProfileCache
	log   *zap.Logger
}

func NewResolver(users interfaces.UserStore, cache interfaces.ProfileCache, log *zap.Logger) *Resolver {
	return &Resolver{users: users, cache: cache, log: log}
}

// Resolve returns the caller's Session. A missing profile is a NotFoundError;
// a blocked account is apperrors.ErrForbidden.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (Session, error) {
	u, ok, err := r.cache.Get(ctx, id.AuthID)
	if err != nil {
		r.log.Warn("profile cache read failed", zap.String("auth_id", id.AuthID), zap.Error(err))
	}
	if !ok {
		u, err = r.users.GetUserByAuthID(ctx, id.AuthID)
		if err != nil {
			return Session{}, apperrors.Store("get user", err)
		}
		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("profile cache write failed", zap.String("auth_id", id.AuthID), zap.Error(err))
		}
	}

	if u.Status == models.UserBlocked {
		return Session{}, fmt.Errorf("%w: account is blocked", apperrors.ErrForbidden)
	}
	return FromUser(u), nil
}
