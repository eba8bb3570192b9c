package interfaces

import (
	"context"

	"github.com/jrose1022/SubTrack/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByAuthID(ctx context.Context, authID string) (models.User, error)
	// ListUsers returns every profile ordered by name.
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, authID, name, address, phone string) (models.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (models.User, error)
	SetStatus(ctx context.Context, id string, status models.UserStatus) (models.User, error)
}
