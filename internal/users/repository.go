package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/store-mgmt/store-api/internal/shared"
)

const uniqueViolation = "23505"

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByID fetches a user by id. Malformed ids match nothing.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT id, username, role, password_hash, created_at FROM users WHERE id = $1`, parsed)
}

// FindByName fetches a user by username.
func (r *PGRepository) FindByName(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, `SELECT id, username, role, password_hash, created_at FROM users WHERE username = $1`, username)
}

// Create hashes password and inserts a new user.
func (r *PGRepository) Create(ctx context.Context, username, password, role string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, username, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Role, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: username %q already exists", shared.ErrDuplicate, username)
		}
		return nil, fmt.Errorf("users: create: %w", err)
	}
	return &user, nil
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		user User
		id   uuid.UUID
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(&id, &user.Username, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("users: find: %w", err)
	}
	user.ID = id.String()
	return &user, nil
}

var _ Store = (*PGRepository)(nil)
