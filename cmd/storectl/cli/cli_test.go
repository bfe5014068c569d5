package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/rbac"
	"github.com/store-mgmt/store-api/internal/shared"
	"github.com/store-mgmt/store-api/internal/users"
)

func TestRolesCommandTable(t *testing.T) {
	stdout := new(bytes.Buffer)
	code := RolesCommand(rbac.DefaultTable(), RolesOptions{Stdout: stdout, Stderr: new(bytes.Buffer)})
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "NAME"))
	require.True(t, strings.HasPrefix(lines[1], "admin"))
	require.Contains(t, lines[1], "delete_record")
	require.True(t, strings.HasPrefix(lines[3], "employee"))
	require.NotContains(t, lines[3], "update_record")
}

func TestRolesCommandJSON(t *testing.T) {
	stdout := new(bytes.Buffer)
	code := RolesCommand(nil, RolesOptions{JSONOutput: true, Stdout: stdout})
	require.Equal(t, 0, code)

	var roles []rbac.Role
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &roles))
	require.Len(t, roles, 3)
	require.Equal(t, rbac.RoleManager, roles[1].Name)
	require.Equal(t, 1, roles[1].Rank)
}

func TestSeedUser(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryRepository()

	user, err := SeedUser(ctx, store, nil, " alice ", "secret", rbac.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.True(t, users.ComparePassword("secret", user.PasswordHash))

	_, err = SeedUser(ctx, store, nil, "alice", "other", rbac.RoleEmployee)
	require.ErrorIs(t, err, shared.ErrDuplicate)

	_, err = SeedUser(ctx, store, nil, "bob", "secret", "owner")
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = SeedUser(ctx, store, nil, "", "secret", rbac.RoleAdmin)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSeedCommandExitCodes(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryRepository()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	opts := SeedOptions{Username: "carol", Password: "pw", Role: rbac.RoleManager, Stdout: stdout, Stderr: stderr}

	require.Equal(t, 0, SeedCommand(ctx, store, nil, opts))
	require.Contains(t, stdout.String(), "created user carol (manager)")

	require.Equal(t, 2, SeedCommand(ctx, store, nil, opts))
	require.Contains(t, stderr.String(), "already exists")

	opts.Role = "ghost"
	opts.Username = "dave"
	require.Equal(t, 1, SeedCommand(ctx, store, nil, opts))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func TestInspect(t *testing.T) {
	stats, err := inspect(stubInspector{info: &asynq.QueueInfo{Pending: 3, Active: 1, Scheduled: 2, Retry: 4}})
	require.NoError(t, err)
	require.Equal(t, QueueStats{Queue: "default", Pending: 3, Active: 1, Scheduled: 2, Retry: 4}, stats)

	stats, err = inspect(stubInspector{err: asynq.ErrQueueNotFound})
	require.NoError(t, err)
	require.Zero(t, stats.Pending)

	_, err = inspect(stubInspector{err: errors.New("redis down")})
	require.Error(t, err)

	out := new(bytes.Buffer)
	WriteStats(out, QueueStats{Queue: "default", Pending: 1})
	require.Equal(t, "queue=default pending=1 active=0 scheduled=0 retry=0\n", out.String())
}
