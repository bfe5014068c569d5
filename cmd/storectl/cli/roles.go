package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/store-mgmt/store-api/internal/rbac"
)

// RolesOptions controls the roles command output.
type RolesOptions struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// RolesCommand prints every role in rank order.
func RolesCommand(table *rbac.Table, opts RolesOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if table == nil {
		table = rbac.DefaultTable()
	}
	roles := table.Roles()
	if opts.JSONOutput {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(roles); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "roles: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tRANK\tPERMISSIONS")
	for _, role := range roles {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", role.Name, role.Rank, strings.Join(role.Permissions, ","))
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "roles: %v\n", err)
		return 1
	}
	return 0
}
