package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/jrose1022/SubTrack/internal/session"
	"go.uber.org/zap"
)

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Name    string
	Address string
	Phone   string
}

func (p ProfileInput) normalized() (ProfileInput, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return p, apperrors.Validation("name", "is required")
	}
	return p, nil
}

type Service struct {
	store interfaces.UserStore
	cache interfaces.ProfileCache
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store interfaces.UserStore, cache interfaces.ProfileCache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, log: log, now: time.Now}
}

// Register creates the profile row for a freshly signed-up identity.
func (s *Service) Register(ctx context.Context, id session.Identity, in ProfileInput) (models.User, error) {
	in, err := in.normalized()
	if err != nil {
		return models.User{}, err
	}
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return models.User{}, apperrors.Validation("email", "the access token carries no email")
	}

	u := models.User{
		ID:        uuid.New().String(),
		AuthID:    id.AuthID,
		Name:      in.Name,
		Email:     email,
		Phone:     in.Phone,
		Address:   in.Address,
		Status:    models.UserActive,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return models.User{}, apperrors.Store("create user", err)
	}
	s.log.Info("profile registered", zap.String("user_id", u.ID), zap.String("auth_id", u.AuthID))
	return u, nil
}

func (s *Service) Profile(ctx context.Context, authID string) (models.User, error) {
	u, err := s.store.GetUserByAuthID(ctx, authID)
	if err != nil {
		return models.User{}, apperrors.Store("get user", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, authID string, in ProfileInput) (models.User, error) {
	in, err := in.normalized()
	if err != nil {
		return models.User{}, err
	}
	u, err := s.store.UpdateProfile(ctx, authID, in.Name, in.Address, in.Phone)
	if err != nil {
		return models.User{}, apperrors.Store("update user", err)
	}
	s.invalidate(ctx, u.AuthID)
	return u, nil
}

// List returns every profile ordered by name.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Store("list users", err)
	}
	return users, nil
}

// SetAdmin grants or revokes the administrator flag. An administrator cannot
// revoke their own flag.
func (s *Service) SetAdmin(ctx context.Context, actor session.Session, userID string, isAdmin bool) (models.User, error) {
	if userID == actor.UserID && !isAdmin {
		return models.User{}, apperrors.Validation("is_admin", "you cannot remove your own administrator role")
	}
	u, err := s.store.SetAdmin(ctx, userID, isAdmin)
	if err != nil {
		return models.User{}, apperrors.Store("update user role", err)
	}
	s.invalidate(ctx, u.AuthID)
	s.log.Info("user role changed", zap.String("user_id", userID), zap.Bool("is_admin", isAdmin), zap.String("by", actor.AuthID))
	return u, nil
}

// SetStatus moves an account between active, blocked and pending.
func (s *Service) SetStatus(ctx context.Context, actor session.Session, userID string, status models.UserStatus) (models.User, error) {
	if !status.Valid() {
		return models.User{}, apperrors.Validation("status", "must be one of active, blocked, pending")
	}
	if userID == actor.UserID && status != models.UserActive {
		return models.User{}, apperrors.Validation("status", "you cannot deactivate your own account")
	}
	u, err := s.store.SetStatus(ctx, userID, status)
	if err != nil {
		return models.User{}, apperrors.Store("update user status", err)
	}
	s.invalidate(ctx, u.AuthID)
	s.log.Info("user status changed", zap.String("user_id", userID), zap.String("status", string(status)), zap.String("by", actor.AuthID))
	return u, nil
}

func (s *Service) invalidate(ctx context.Context, authID string) {
	if err := s.cache.Invalidate(ctx, authID); err != nil {
		s.log.Warn("profile cache invalidation failed", zap.String("auth_id", authID), zap.Error(err))
	}
}
