package schemas

import (
	"context"
	"net/http"
	"sort"

	"farmadmin/internal/client"
	"farmadmin/internal/page"
)

// AdminRole holds every permission and cannot be renamed or deleted.
const AdminRole = "ADMIN"

func init() {
	register(page.Schema{
		Entity:       "role",
		Title:        "Roles",
		Path:         "/roles",
		EmptyMessage: "No roles defined.",
		Fields: []page.Field{
			text("name", true),
			{Name: "permissions", Kind: page.List},
		},
		Columns: []page.Column{
			col("Name", "name"),
			{Header: "Permissions", Key: "permissions", Format: func(r client.Record) string {
				perms, _ := r["permissions"].([]any)
				return client.Format(len(perms))
			}},
		},
	})
}

// RoleEditor is the permission checklist of the role form. A role named
// ADMIN always has every permission checked.
type RoleEditor struct {
	all      []string
	name     string
	selected map[string]bool
}

// NewRoleEditor starts from role, or a blank form when role is nil. all is
// the full permission list offered by the server.
func NewRoleEditor(all []string, role client.Record) *RoleEditor {
	e := &RoleEditor{all: append([]string(nil), all...), selected: map[string]bool{}}
	sort.Strings(e.all)
	if role != nil {
		e.name = role.String("name")
		perms, _ := role["permissions"].([]any)
		for _, p := range perms {
			switch v := p.(type) {
			case map[string]any:
				e.selected[client.Format(v["name"])] = true
			case string:
				e.selected[v] = true
			}
		}
	}
	e.mirrorAdmin()
	return e
}

func (e *RoleEditor) IsAdmin() bool { return e.name == AdminRole }

func (e *RoleEditor) Name() string { return e.name }

// SetName renames the role. Naming it ADMIN checks every permission.
func (e *RoleEditor) SetName(name string) {
	e.name = name
	e.mirrorAdmin()
}

// Toggle flips one permission. It does nothing on ADMIN.
func (e *RoleEditor) Toggle(perm string) {
	if e.IsAdmin() {
		return
	}
	if e.selected[perm] {
		delete(e.selected, perm)
	} else {
		e.selected[perm] = true
	}
}

// Grant checks perms.
func (e *RoleEditor) Grant(perms ...string) {
	for _, p := range perms {
		if !e.selected[p] {
			e.Toggle(p)
		}
	}
}

func (e *RoleEditor) Checked(perm string) bool {
	return e.selected[perm]
}

// Selected lists the checked permissions in sorted order.
func (e *RoleEditor) Selected() []string {
	out := make([]string, 0, len(e.selected))
	for p := range e.selected {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CanDelete is false for ADMIN.
func (e *RoleEditor) CanDelete() bool { return !e.IsAdmin() }

func (e *RoleEditor) Payload() map[string]any {
	return map[string]any{"name": e.name, "permissions": e.Selected()}
}

func (e *RoleEditor) mirrorAdmin() {
	if !e.IsAdmin() {
		return
	}
	for _, p := range e.all {
		e.selected[p] = true
	}
}

// AllPermissions reads the permission names the role form offers.
func AllPermissions(ctx context.Context, c *client.Client) ([]string, error) {
	var resp struct {
		AllPermissions []string `json:"all_permissions"`
	}
	if err := c.Do(ctx, http.MethodGet, "/roles/menu-permissions", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AllPermissions, nil
}
