package rbac

import (
	"sort"
	"strings"
)

// Record permissions granted by the role table.
const (
	PermCreateRecord = "create_record"
	PermReadRecord   = "read_record"
	PermUpdateRecord = "update_record"
	PermDeleteRecord = "delete_record"
)

// Role names seeded into the default table.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"

	// RoleAnonymous is used for callers that presented no credential. It is
	// intentionally absent from the table.
	RoleAnonymous = "anonymous"
)

// UnknownRank is reported for role names missing from the table. It is
// worse than every defined rank.
const UnknownRank = 9999

// Role is a named permission grouping. Lower rank means more privileged.
type Role struct {
	Name        string   `json:"name"`
	Rank        int      `json:"rank"`
	Permissions []string `json:"permissions"`
}

// Principal describes the authenticated actor.
type Principal interface {
	RoleName() string
}

type entry struct {
	role  Role
	perms map[string]struct{}
}

// Table is an immutable role -> permissions mapping. It is safe for
// concurrent reads without synchronisation.
type Table struct {
	byName map[string]entry
	order  []string
}

// NewTable builds a table from the given roles. Later duplicates replace
// earlier ones. Callers must keep higher-ranked roles a superset of the
// lower-ranked ones when extending the list.
func NewTable(roles ...Role) *Table {
	t := &Table{byName: make(map[string]entry, len(roles))}
	for _, r := range roles {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		if _, exists := t.byName[name]; !exists {
			t.order = append(t.order, name)
		}
		perms := make(map[string]struct{}, len(r.Permissions))
		for _, p := range normalizePermissions(r.Permissions) {
			perms[p] = struct{}{}
		}
		t.byName[name] = entry{
			role:  Role{Name: name, Rank: r.Rank, Permissions: sortedKeys(perms)},
			perms: perms,
		}
	}
	sort.SliceStable(t.order, func(i, j int) bool {
		return t.byName[t.order[i]].role.Rank < t.byName[t.order[j]].role.Rank
	})
	return t
}

var defaultTable = NewTable(
	Role{Name: RoleAdmin, Rank: 0, Permissions: []string{PermCreateRecord, PermReadRecord, PermUpdateRecord, PermDeleteRecord}},
	Role{Name: RoleManager, Rank: 1, Permissions: []string{PermCreateRecord, PermReadRecord, PermUpdateRecord}},
	Role{Name: RoleEmployee, Rank: 2, Permissions: []string{PermCreateRecord, PermReadRecord}},
)

// DefaultTable returns the process-wide admin/manager/employee table.
func DefaultTable() *Table {
	return defaultTable
}

// PermissionsOf returns the sorted permissions of a role. Unknown roles get
// an empty slice, never an error.
func (t *Table) PermissionsOf(roleName string) []string {
	e, ok := t.byName[roleName]
	if !ok {
		return []string{}
	}
	out := make([]string, len(e.role.Permissions))
	copy(out, e.role.Permissions)
	return out
}

// Grants reports whether roleName holds permission.
func (t *Table) Grants(roleName, permission string) bool {
	e, ok := t.byName[roleName]
	if !ok {
		return false
	}
	_, granted := e.perms[permission]
	return granted
}

// RankOf returns the rank of a role or UnknownRank.
func (t *Table) RankOf(roleName string) int {
	e, ok := t.byName[roleName]
	if !ok {
		return UnknownRank
	}
	return e.role.Rank
}

// Known reports whether the role exists in the table.
func (t *Table) Known(roleName string) bool {
	_, ok := t.byName[roleName]
	return ok
}

// Names lists role names ordered by rank.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Roles returns copies of all roles ordered by rank.
func (t *Table) Roles() []Role {
	out := make([]Role, 0, len(t.order))
	for _, name := range t.order {
		r := t.byName[name].role
		perms := make([]string, len(r.Permissions))
		copy(perms, r.Permissions)
		out = append(out, Role{Name: r.Name, Rank: r.Rank, Permissions: perms})
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
