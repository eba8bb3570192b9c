package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
)

// MemoryUserStore is an in-memory implementation of interfaces.UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User // by id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (m *MemoryUserStore) CreateUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		switch {
		case u.ID == user.ID:
			return apperrors.Validation("id", "user %s already exists", user.ID)
		case u.AuthID == user.AuthID:
			return apperrors.Validation("auth_id", "a profile already exists for this account")
		case strings.EqualFold(u.Email, user.Email):
			return apperrors.Validation("email", "email %s is already registered", user.Email)
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MemoryUserStore) GetUser(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user", id)
	}
	return u, nil
}

func (m *MemoryUserStore) GetUserByAuthID(ctx context.Context, authID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.AuthID == authID {
			return u, nil
		}
	}
	return models.User{}, apperrors.NotFound("user", authID)
}

func (m *MemoryUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryUserStore) UpdateProfile(ctx context.Context, authID, name, address, phone string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, u := range m.users {
		if u.AuthID != authID {
			continue
		}
		u.Name, u.Address, u.Phone = name, address, phone
		m.users[id] = u
		return u, nil
	}
	return models.User{}, apperrors.NotFound("user", authID)
}

func (m *MemoryUserStore) SetAdmin(ctx context.Context, id string, isAdmin bool) (models.User, error) {
	return m.mutate(id, func(u *models.User) { u.IsAdmin = isAdmin })
}

func (m *MemoryUserStore) SetStatus(ctx context.Context, id string, status models.UserStatus) (models.User, error) {
	return m.mutate(id, func(u *models.User) { u.Status = status })
}

func (m *MemoryUserStore) mutate(id string, fn func(*models.User)) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user", id)
	}
	fn(&u)
	m.users[id] = u
	return u, nil
}

var _ interfaces.UserStore = (*MemoryUserStore)(nil)
