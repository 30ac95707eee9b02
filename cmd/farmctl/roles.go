package main

import (
	"context"
	"fmt"
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/schemas"

	"github.com/spf13/cobra"
)

func (a *app) grantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <role> <permission>...",
		Short: "Add permissions to a role",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRole(cmd.Context(), args[0], func(e *schemas.RoleEditor) {
				e.Grant(args[1:]...)
			})
		},
	}
}

func (a *app) revokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <role> <permission>...",
		Short: "Remove permissions from a role",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editRole(cmd.Context(), args[0], func(e *schemas.RoleEditor) {
				for _, p := range args[1:] {
					if e.Checked(p) {
						e.Toggle(p)
					}
				}
			})
		},
	}
}

// editRole loads the named role into the permission checklist, applies
// change and saves the full permission set.
func (a *app) editRole(ctx context.Context, name string, change func(*schemas.RoleEditor)) error {
	s, err := schemas.Lookup("roles")
	if err != nil {
		return err
	}
	roles := schemas.Resource(a.client, s)

	list, err := roles.List(ctx, nil)
	if err != nil {
		a.Alert(client.Message(err))
		return &alertedError{err}
	}
	var role client.Record
	for _, r := range list {
		if strings.EqualFold(r.String("name"), name) {
			role = r
			break
		}
	}
	if role == nil {
		return fmt.Errorf("role %q not found", name)
	}

	all, err := schemas.AllPermissions(ctx, a.client)
	if err != nil {
		a.Alert(client.Message(err))
		return &alertedError{err}
	}
	known := make(map[string]bool, len(all))
	for _, p := range all {
		known[p] = true
	}

	e := schemas.NewRoleEditor(all, role)
	if e.IsAdmin() {
		fmt.Fprintln(a.out, "ADMIN always holds every permission.")
		return nil
	}
	change(e)
	for _, p := range e.Selected() {
		if !known[p] {
			return fmt.Errorf("unknown permission %q", p)
		}
	}

	if _, err := roles.Update(ctx, role.ID(), e.Payload()); err != nil {
		a.Alert(client.Message(err))
		return &alertedError{err}
	}
	fmt.Fprintf(a.out, "Role %s now has %d permission(s).\n", e.Name(), len(e.Selected()))
	return nil
}
