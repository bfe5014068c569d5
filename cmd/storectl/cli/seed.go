package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
	"github.com/store-mgmt/store-api/internal/users"
)

// SeedOptions defines the seed command flags.
type SeedOptions struct {
	Username string
	Password string
	Role     string
	Stdout   io.Writer
	Stderr   io.Writer
}

// SeedUser creates a user after checking the role exists in table.
func SeedUser(ctx context.Context, store users.Store, table *rbac.Table, username, password, role string) (*users.User, error) {
	username = strings.TrimSpace(username)
	role = strings.TrimSpace(role)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrValidation)
	}
	if table == nil {
		table = rbac.DefaultTable()
	}
	if !table.Known(role) {
		return nil, fmt.Errorf("%w: unknown role %q (known: %s)", shared.ErrValidation, role, strings.Join(table.Names(), ", "))
	}
	existing, err := store.FindByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q already exists", shared.ErrDuplicate, username)
	}
	return store.Create(ctx, username, password, role)
}

// SeedCommand runs SeedUser and reports the outcome. An existing user
// exits with 2 so provisioning scripts can treat it as a no-op.
func SeedCommand(ctx context.Context, store users.Store, table *rbac.Table, opts SeedOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	user, err := SeedUser(ctx, store, table, opts.Username, opts.Password, opts.Role)
	switch {
	case errors.Is(err, shared.ErrDuplicate):
		_, _ = fmt.Fprintf(opts.Stderr, "seed: %v\n", err)
		return 2
	case err != nil:
		_, _ = fmt.Fprintf(opts.Stderr, "seed: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "created user %s (%s) id=%s\n", user.Username, user.Role, user.ID)
	return 0
}
