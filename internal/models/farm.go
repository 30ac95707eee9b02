package models

const (
	FarmStatusActive   = "ACTIVE"
	FarmStatusInactive = "INACTIVE"
)

type Farm struct {
	Base
	FarmCode        string   `gorm:"size:20;uniqueIndex" json:"farm_code"`
	Name            string   `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	LegalName       string   `gorm:"size:255" json:"legal_name" validate:"max=255"`
	FarmType        string   `gorm:"size:50" json:"farm_type" validate:"max=50"`
	Country         string   `gorm:"size:100" json:"country"`
	State           string   `gorm:"size:100" json:"state"`
	Town            string   `gorm:"size:100" json:"town"`
	DefaultCurrency string   `gorm:"size:3;default:NGN" json:"default_currency" validate:"omitempty,len=3"`
	DefaultTimezone string   `gorm:"size:64;default:Africa/Lagos" json:"default_timezone"`
	Status          string   `gorm:"size:20;default:ACTIVE;index" json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Description     string   `gorm:"type:text" json:"description"`
	TotalArea       *float64 `json:"total_area" validate:"omitempty,gte=0"`
	AreaUnit        string   `gorm:"size:20" json:"area_unit"`
	IsActive        *bool    `gorm:"default:true" json:"is_active"`
}

// SiteType classifies sites; CodePrefix seeds generated site codes.
type SiteType struct {
	Base
	Code        string `gorm:"size:50;uniqueIndex" json:"code" validate:"required,max=50"`
	Name        string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	CodePrefix  string `gorm:"size:10" json:"code_prefix" validate:"max=10"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    *bool  `gorm:"default:true" json:"is_active"`
}

type Site struct {
	Base
	FarmID      uint     `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm        *Farm    `json:"farm,omitempty" validate:"-"`
	Name        string   `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Code        string   `gorm:"size:50;index" json:"code" validate:"max=50"`
	Type        string   `gorm:"size:50" json:"type" validate:"required,max=50"`
	Description string   `gorm:"type:text" json:"description"`
	Address     string   `gorm:"type:text" json:"address"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	TotalArea   *float64 `json:"total_area" validate:"omitempty,gte=0"`
	AreaUnit    string   `gorm:"size:20" json:"area_unit"`
	Notes       string   `gorm:"type:text" json:"notes"`
	IsActive    *bool    `gorm:"default:true" json:"is_active"`
}

// Zone is a cultivated area inside a site.
type Zone struct {
	Base
	SiteID      uint     `gorm:"index;not null" json:"site_id" validate:"required"`
	Site        *Site    `json:"site,omitempty" validate:"-"`
	CropID      *uint    `gorm:"index" json:"crop_id"`
	Crop        *Crop    `json:"crop,omitempty" validate:"-"`
	Name        string   `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Code        string   `gorm:"size:50" json:"code" validate:"max=50"`
	Description string   `gorm:"type:text" json:"description"`
	Area        *float64 `json:"area" validate:"omitempty,gte=0"`
	AreaUnit    string   `gorm:"size:20" json:"area_unit"`
	ProduceType string   `gorm:"size:100" json:"produce_type"`
	SoilType    string   `gorm:"size:100" json:"soil_type"`
	IsActive    *bool    `gorm:"default:true" json:"is_active"`
}

func (Zone) TableName() string { return "farm_zones" }

const (
	SeasonPlanned   = "PLANNED"
	SeasonActive    = "ACTIVE"
	SeasonCompleted = "COMPLETED"
	SeasonCancelled = "CANCELLED"
)

type Season struct {
	Base
	FarmID    uint   `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm      *Farm  `json:"farm,omitempty" validate:"-"`
	Name      string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	StartDate Date   `gorm:"not null" json:"start_date" validate:"required"`
	EndDate   *Date  `json:"end_date"`
	Status    string `gorm:"size:20;default:PLANNED;index" json:"status" validate:"omitempty,oneof=PLANNED ACTIVE COMPLETED CANCELLED"`
	Notes     string `gorm:"type:text" json:"notes"`
}
