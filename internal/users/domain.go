package users

import (
	"context"
	"time"
)

// User is a stored subject. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store is the subject lookup used by authentication. Lookups return
// (nil, nil) when no subject matches.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByName(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username, password, role string) (*User, error)
}
