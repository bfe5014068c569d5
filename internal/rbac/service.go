package rbac

import "errors"

// ErrPermissionDenied is returned when the gate denies a request.
var ErrPermissionDenied = errors.New("rbac: permission denied")

// Decision is the outcome of a single permission check. It is never stored.
type Decision struct {
	Allowed    bool
	Role       string
	Permission string
}

// Err converts a deny decision into ErrPermissionDenied.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrPermissionDenied
}

// Gate decides allow/deny for a principal and a required permission. Rank is
// not consulted.
type Gate struct {
	table *Table
}

// NewGate constructs a Gate over table. A nil table uses DefaultTable.
func NewGate(table *Table) Gate {
	if table == nil {
		table = DefaultTable()
	}
	return Gate{table: table}
}

// Table exposes the role table backing the gate.
func (g Gate) Table() *Table {
	if g.table == nil {
		return DefaultTable()
	}
	return g.table
}

// Check evaluates permission for principal. A nil principal is anonymous.
func (g Gate) Check(principal Principal, permission string) Decision {
	role := RoleAnonymous
	if principal != nil {
		role = principal.RoleName()
	}
	return g.CheckRole(role, permission)
}

// CheckRole evaluates permission for a bare role name.
func (g Gate) CheckRole(role, permission string) Decision {
	return Decision{
		Allowed:    g.Table().Grants(role, permission),
		Role:       role,
		Permission: permission,
	}
}
