package models

// StaffAssignment places a user on a farm, site or zone for a period.
type StaffAssignment struct {
	Base
	UserID               uint   `gorm:"index;not null" json:"user_id" validate:"required"`
	User                 *User  `json:"user,omitempty" validate:"-"`
	AssignableType       string `gorm:"size:20;index" json:"assignable_type" validate:"required,oneof=farm site zone"`
	AssignableID         uint   `gorm:"index" json:"assignable_id" validate:"required"`
	Role                 string `gorm:"size:100" json:"role" validate:"required,max=100"`
	CoreResponsibilities string `gorm:"type:text" json:"core_responsibilities"`
	AssignedFrom         Date   `json:"assigned_from" validate:"required"`
	AssignedTo           *Date  `json:"assigned_to"`
	Notes                string `gorm:"type:text" json:"notes"`
	IsCurrent            bool   `json:"is_current"`
}
