package pgstore

import (
	"context"
	"errors"

	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore persists user identities in the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, name, email, password_hash, avatar, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The password hash is stored verbatim; hashing
// happens at the write site.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash, avatar string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, uuid.NewString(), name, email, passwordHash, avatar)

	user, err := scanUser(row)
	if err != nil {
		if pgErrCode(err) == uniqueViolation {
			return nil, apperrors.Conflict("User already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}

	return user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to look up user", err)
	}

	return user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to look up user", err)
	}

	return user, nil
}

// Search matches keyword against name or email, case-insensitively. An empty
// keyword matches all users. The caller is always excluded.
func (s *UserStore) Search(ctx context.Context, keyword, excludeID string) ([]models.UserResponse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, avatar
		FROM users
		WHERE (name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		  AND id <> $2
		ORDER BY name, id
	`, keyword, excludeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to search users", err)
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var u models.UserResponse
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to scan user", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
