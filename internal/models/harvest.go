package models

import "time"

type HarvestLot struct {
	Base
	FarmID         uint      `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm           *Farm     `json:"farm,omitempty" validate:"-"`
	ZoneID         *uint     `gorm:"index" json:"zone_id"`
	Zone           *Zone     `json:"zone,omitempty" validate:"-"`
	SeasonID       *uint     `gorm:"index" json:"season_id"`
	Season         *Season   `json:"season,omitempty" validate:"-"`
	Code           string    `gorm:"size:30;uniqueIndex" json:"code"`
	HarvestedAt    time.Time `gorm:"index" json:"harvested_at" validate:"required"`
	GrossWeight    *float64  `json:"gross_weight" validate:"omitempty,gte=0"`
	NetWeight      *float64  `json:"net_weight" validate:"omitempty,gte=0"`
	WeightUnit     string    `gorm:"size:10;default:kg" json:"weight_unit"`
	QualityGrade   string    `gorm:"size:20" json:"quality_grade"`
	TraceabilityID string    `gorm:"size:30;uniqueIndex" json:"traceability_id"`
	Notes          string    `gorm:"type:text" json:"notes"`
}
