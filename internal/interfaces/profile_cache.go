package interfaces

import (
	"context"

	"github.com/jrose1022/SubTrack/internal/models"
)

// ProfileCache keeps recently resolved user profiles keyed by auth id.
// A miss is reported with ok == false and a nil error.
type ProfileCache interface {
	Get(ctx context.Context, authID string) (user models.User, ok bool, err error)
	Set(ctx context.Context, user models.User) error
	Invalidate(ctx context.Context, authID string) error
}
