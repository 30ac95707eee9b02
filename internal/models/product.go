package models

type Crop struct {
	Base
	Name                string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Category            string `gorm:"size:100" json:"category" validate:"max=100"`
	DefaultMaturityDays *int   `json:"default_maturity_days" validate:"omitempty,gte=0"`
	Description         string `gorm:"type:text" json:"description"`
}

type Product struct {
	Base
	FarmID        *uint  `gorm:"index" json:"farm_id"`
	Farm          *Farm  `json:"farm,omitempty" validate:"-"`
	Code          string `gorm:"size:50;index" json:"code" validate:"max=50"`
	Name          string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Category      string `gorm:"size:100" json:"category" validate:"max=100"`
	UnitOfMeasure string `gorm:"size:20" json:"unit_of_measure" validate:"max=20"`
	IsActive      *bool  `gorm:"default:true" json:"is_active"`
}

type Customer struct {
	Base
	FarmID       *uint  `gorm:"index" json:"farm_id"`
	Name         string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	CustomerType string `gorm:"size:20;index" json:"customer_type" validate:"omitempty,oneof=INDIVIDUAL BUSINESS DISTRIBUTOR RETAILER EXPORTER"`
	Contact      string `gorm:"size:255" json:"contact"`
	Address      string `gorm:"type:text" json:"address"`
	Email        string `gorm:"size:255" json:"email" validate:"omitempty,email"`
	Phone        string `gorm:"size:50" json:"phone" validate:"max=50"`
}
