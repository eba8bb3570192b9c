package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jrose1022/SubTrack/internal/apperrors"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/models"
)

const userColumns = `id, auth_id, name, email, phone, address, is_admin, status, created_at`

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (p *PostgresUserStore) CreateUser(ctx context.Context, u models.User) error {
	const query = `INSERT INTO users (id, auth_id, name, email, phone, address, is_admin, status, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := p.db.ExecContext(ctx, query, u.ID, u.AuthID, u.Name, u.Email, u.Phone, u.Address, u.IsAdmin, string(u.Status), u.CreatedAt)
	return classify(err)
}

func (p *PostgresUserStore) GetUser(ctx context.Context, id string) (models.User, error) {
	if err := checkID("user", id); err != nil {
		return models.User{}, err
	}
	return p.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (p *PostgresUserStore) GetUserByAuthID(ctx context.Context, authID string) (models.User, error) {
	return p.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
}

func (p *PostgresUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *PostgresUserStore) UpdateProfile(ctx context.Context, authID, name, address, phone string) (models.User, error) {
	return p.queryOne(ctx, `UPDATE users SET name = $2, address = $3, phone = $4
	WHERE auth_id = $1 RETURNING `+userColumns, authID, name, address, phone)
}

func (p *PostgresUserStore) SetAdmin(ctx context.Context, id string, isAdmin bool) (models.User, error) {
	if err := checkID("user", id); err != nil {
		return models.User{}, err
	}
	return p.queryOne(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1 RETURNING `+userColumns, id, isAdmin)
}

func (p *PostgresUserStore) SetStatus(ctx context.Context, id string, status models.UserStatus) (models.User, error) {
	if err := checkID("user", id); err != nil {
		return models.User{}, err
	}
	return p.queryOne(ctx, `UPDATE users SET status = $2 WHERE id = $1 RETURNING `+userColumns, id, string(status))
}

// queryOne runs a single-row query; the first argument is the lookup key
// reported when no row matches.
func (p *PostgresUserStore) queryOne(ctx context.Context, query string, args ...any) (models.User, error) {
	u, err := scanUser(p.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		key, _ := args[0].(string)
		return models.User{}, apperrors.NotFound("user", key)
	}
	if err != nil {
		return models.User{}, classify(err)
	}
	return u, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u      models.User
		status string
	)
	err := row.Scan(&u.ID, &u.AuthID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.IsAdmin, &status, &u.CreatedAt)
	u.Status = models.UserStatus(status)
	return u, err
}

var _ interfaces.UserStore = (*PostgresUserStore)(nil)
