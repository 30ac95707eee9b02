package models

import "time"

const (
	MembershipActive   = "ACTIVE"
	MembershipInactive = "INACTIVE"
)

// UserFarm is a user's membership of one farm, with the employment terms it
// was made on. Non-ADMIN users only reach the records of farms they are
// active members of.
type UserFarm struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_farm_user_member" json:"user_id"`
	FarmID             uint      `gorm:"not null;uniqueIndex:idx_farm_user_member" json:"farm_id" validate:"required"`
	Farm               *Farm     `json:"farm,omitempty" validate:"-"`
	Role               string    `gorm:"size:50" json:"role" validate:"max=50"`
	MembershipStatus   string    `gorm:"size:20;default:ACTIVE" json:"membership_status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	EmploymentCategory string    `gorm:"size:20" json:"employment_category" validate:"omitempty,oneof=PERMANENT CASUAL CONTRACTOR SEASONAL"`
	PayType            string    `gorm:"size:20" json:"pay_type" validate:"omitempty,oneof=MONTHLY DAILY HOURLY TASK"`
	PayRate            *float64  `json:"pay_rate" validate:"omitempty,gte=0"`
	StartDate          *Date     `json:"start_date"`
	EndDate            *Date     `json:"end_date"`
	Notes              string    `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (UserFarm) TableName() string { return "farm_user" }

func (m *UserFarm) Active() bool {
	return m.MembershipStatus != MembershipInactive
}
