package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminRole holds every permission and passes every gate.
const AdminRole = "ADMIN"

type User struct {
	Base
	Name         string       `gorm:"size:255;not null" json:"name"`
	Email        string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string       `gorm:"size:50" json:"phone"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Roles        []Role       `gorm:"many2many:user_roles" json:"roles"`
	Permissions  []Permission `gorm:"many2many:user_permissions" json:"permissions"`
	Farms        []UserFarm   `gorm:"foreignKey:UserID" json:"farms"`
}

// AfterFind keeps the roles, permissions and farms arrays in JSON even when
// empty.
func (u *User) AfterFind(tx *gorm.DB) error {
	if u.Roles == nil {
		u.Roles = []Role{}
	}
	if u.Permissions == nil {
		u.Permissions = []Permission{}
	}
	if u.Farms == nil {
		u.Farms = []UserFarm{}
	}
	return nil
}

// ActiveFarmIDs lists the farms the user is an active member of. Farms must
// be preloaded.
func (u *User) ActiveFarmIDs() []uint {
	ids := make([]uint, 0, len(u.Farms))
	for _, m := range u.Farms {
		if m.Active() {
			ids = append(ids, m.FarmID)
		}
	}
	return ids
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Can reports whether the user holds the named permission directly or through
// any role. Roles and permissions must be preloaded.
func (u *User) Can(permission string) bool {
	if u.HasRole(AdminRole) {
		return true
	}
	for _, p := range u.Permissions {
		if p.Name == permission {
			return true
		}
	}
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if p.Name == permission {
				return true
			}
		}
	}
	return false
}

// PermissionNames lists the effective permission names, deduplicated.
func (u *User) PermissionNames() []string {
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, p := range u.Permissions {
		add(p.Name)
	}
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			add(p.Name)
		}
	}
	return names
}

// Role and Permission are hard-deleted; they are not audited records.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuPermission describes one grantable action in the admin menu tree.
type MenuPermission struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	MenuKey        string  `gorm:"size:50;index" json:"menu_key"`
	SubmenuKey     *string `gorm:"size:50" json:"submenu_key"`
	PermissionType string  `gorm:"size:20" json:"permission_type"`
	Name           string  `gorm:"size:150" json:"name"`
	Description    string  `gorm:"size:255" json:"description"`
	SortOrder      int     `json:"sort_order"`
}

// PermissionName is menu[.submenu].type.
func (m MenuPermission) PermissionName() string {
	name := m.MenuKey
	if m.SubmenuKey != nil && *m.SubmenuKey != "" {
		name += "." + *m.SubmenuKey
	}
	return name + "." + m.PermissionType
}
