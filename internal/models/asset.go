package models

type AssetCategory struct {
	Base
	FarmID      *uint          `gorm:"index" json:"farm_id"`
	ParentID    *uint          `gorm:"index" json:"parent_id"`
	Parent      *AssetCategory `json:"parent,omitempty" validate:"-"`
	Name        string         `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Code        string         `gorm:"size:50" json:"code" validate:"max=50"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    *bool          `gorm:"default:true" json:"is_active"`
}

type Asset struct {
	Base
	FarmID          uint           `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm            *Farm          `json:"farm,omitempty" validate:"-"`
	AssetCategoryID *uint          `gorm:"index" json:"asset_category_id"`
	AssetCategory   *AssetCategory `json:"asset_category,omitempty" validate:"-"`
	AssetCode       string         `gorm:"size:50;uniqueIndex" json:"asset_code"`
	Name            string         `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          string         `gorm:"size:20;default:ACTIVE;index" json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE UNDER_REPAIR DISPOSED SOLD LOST"`
	AcquisitionType string         `gorm:"size:20" json:"acquisition_type" validate:"omitempty,oneof=PURCHASED LEASED RENTED DONATED"`
	PurchaseDate    *Date          `json:"purchase_date"`
	PurchaseCost    *float64       `json:"purchase_cost" validate:"omitempty,gte=0"`
	Currency        string         `gorm:"size:3;default:NGN" json:"currency" validate:"omitempty,len=3"`
	SupplierName    string         `gorm:"size:255" json:"supplier_name"`
	SerialNumber    string         `gorm:"size:100" json:"serial_number"`
	Model           string         `gorm:"size:100" json:"model"`
	Manufacturer    string         `gorm:"size:100" json:"manufacturer"`
	Notes           string         `gorm:"type:text" json:"notes"`
}

type ScaleDevice struct {
	Base
	FarmID           uint   `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm             *Farm  `json:"farm,omitempty" validate:"-"`
	Name             string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	ConnectionType   string `gorm:"size:20;default:MOCK" json:"connection_type" validate:"omitempty,oneof=SERIAL USB BLUETOOTH TCP_IP MOCK"`
	ConnectionConfig string `gorm:"type:text" json:"connection_config"`
	IsActive         *bool  `gorm:"default:true" json:"is_active"`
}
