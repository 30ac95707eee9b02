package models

const (
	BatchPlanned    = "PLANNED"
	BatchInProgress = "IN_PROGRESS"
	BatchCompleted  = "COMPLETED"
	BatchCancelled  = "CANCELLED"

	InventoryInStock = "IN_STOCK"
	InventorySold    = "SOLD"

	PaymentPaid        = "PAID"
	PaymentPartial     = "PARTIAL"
	PaymentOutstanding = "OUTSTANDING"
)

// ProductionBatch is one cassava-to-gari processing run. The derived columns
// are recomputed on every save.
type ProductionBatch struct {
	Base
	FarmID            uint     `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm              *Farm    `json:"farm,omitempty" validate:"-"`
	BatchCode         string   `gorm:"size:20;uniqueIndex" json:"batch_code"`
	ProcessingDate    Date     `gorm:"index;not null" json:"processing_date" validate:"required"`
	CassavaSource     string   `gorm:"size:20;default:HARVESTED" json:"cassava_source" validate:"omitempty,oneof=HARVESTED PURCHASED MIXED"`
	HarvestLotID      *uint    `gorm:"index" json:"harvest_lot_id"`
	CassavaQuantityKg float64  `json:"cassava_quantity_kg" validate:"gte=0"`
	CassavaCostPerKg  *float64 `json:"cassava_cost_per_kg" validate:"omitempty,gte=0"`
	TotalCassavaCost  float64  `json:"total_cassava_cost" validate:"gte=0"`
	GariProducedKg    float64  `json:"gari_produced_kg" validate:"gte=0"`
	GariType          string   `gorm:"size:10;default:WHITE" json:"gari_type" validate:"omitempty,oneof=WHITE YELLOW"`
	GariGrade         string   `gorm:"size:10;default:FINE" json:"gari_grade" validate:"omitempty,oneof=FINE COARSE MIXED"`

	LabourCost    float64 `json:"labour_cost" validate:"gte=0"`
	FuelCost      float64 `json:"fuel_cost" validate:"gte=0"`
	EquipmentCost float64 `json:"equipment_cost" validate:"gte=0"`
	WaterCost     float64 `json:"water_cost" validate:"gte=0"`
	TransportCost float64 `json:"transport_cost" validate:"gte=0"`
	OtherCosts    float64 `json:"other_costs" validate:"gte=0"`

	WasteKg float64 `json:"waste_kg" validate:"gte=0"`

	TotalProcessingCost    float64 `json:"total_processing_cost"`
	TotalCost              float64 `json:"total_cost"`
	CostPerKgGari          float64 `json:"cost_per_kg_gari"`
	ConversionYieldPercent float64 `json:"conversion_yield_percent"`
	WastePercent           float64 `json:"waste_percent"`

	Status string `gorm:"size:20;default:PLANNED;index" json:"status" validate:"omitempty,oneof=PLANNED IN_PROGRESS COMPLETED CANCELLED"`
	Notes  string `gorm:"type:text" json:"notes"`
}

func (ProductionBatch) TableName() string { return "gari_production_batches" }

type InventoryItem struct {
	Base
	FarmID            uint             `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm              *Farm            `json:"farm,omitempty" validate:"-"`
	ProductionBatchID *uint            `gorm:"index" json:"gari_production_batch_id"`
	ProductionBatch   *ProductionBatch `json:"gari_production_batch,omitempty" validate:"-"`
	GariType          string           `gorm:"size:10;default:WHITE" json:"gari_type" validate:"omitempty,oneof=WHITE YELLOW"`
	GariGrade         string           `gorm:"size:10;default:FINE" json:"gari_grade" validate:"omitempty,oneof=FINE COARSE MIXED"`
	PackagingType     string           `gorm:"size:20;default:1KG_POUCH" json:"packaging_type" validate:"omitempty,oneof=1KG_POUCH 2KG_POUCH 5KG_PACK 50KG_BAG BULK"`
	QuantityKg        float64          `json:"quantity_kg" validate:"gte=0"`
	QuantityUnits     int              `json:"quantity_units" validate:"gte=0"`
	CostPerKg         *float64         `json:"cost_per_kg" validate:"omitempty,gte=0"`
	TotalCost         float64          `json:"total_cost"`
	Status            string           `gorm:"size:20;default:IN_STOCK;index" json:"status" validate:"omitempty,oneof=IN_STOCK RESERVED SOLD SPOILED DAMAGED"`
	ProductionDate    *Date            `json:"production_date"`
	ExpiryDate        *Date            `json:"expiry_date"`
	Notes             string           `gorm:"type:text" json:"notes"`
}

func (InventoryItem) TableName() string { return "gari_inventory" }

type WasteLoss struct {
	Base
	FarmID            uint           `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm              *Farm          `json:"farm,omitempty" validate:"-"`
	ProductionBatchID *uint          `gorm:"index" json:"gari_production_batch_id"`
	InventoryItemID   *uint          `gorm:"index" json:"gari_inventory_id"`
	InventoryItem     *InventoryItem `json:"gari_inventory,omitempty" validate:"-"`
	LossDate          Date           `gorm:"index;not null" json:"loss_date" validate:"required"`
	LossType          string         `gorm:"size:20;default:SPOILAGE" json:"loss_type" validate:"omitempty,oneof=SPOILAGE MOISTURE_DAMAGE SPILLAGE REJECTED_BATCH CUSTOMER_RETURN THEFT OTHER"`
	GariType          string         `gorm:"size:10" json:"gari_type" validate:"omitempty,oneof=WHITE YELLOW"`
	PackagingType     string         `gorm:"size:20" json:"packaging_type" validate:"omitempty,oneof=1KG_POUCH 2KG_POUCH 5KG_PACK 50KG_BAG BULK"`
	QuantityKg        float64        `json:"quantity_kg" validate:"gte=0"`
	QuantityUnits     int            `json:"quantity_units" validate:"gte=0"`
	CostPerKg         *float64       `json:"cost_per_kg" validate:"omitempty,gte=0"`
	TotalLossValue    float64        `json:"total_loss_value"`
	Description       string         `gorm:"type:text" json:"description"`
	Notes             string         `gorm:"type:text" json:"notes"`
}

func (WasteLoss) TableName() string { return "gari_waste_losses" }

type Sale struct {
	Base
	FarmID            uint      `gorm:"index;not null" json:"farm_id" validate:"required"`
	Farm              *Farm     `json:"farm,omitempty" validate:"-"`
	ProductionBatchID *uint     `gorm:"index" json:"gari_production_batch_id"`
	InventoryItemID   *uint     `gorm:"index" json:"gari_inventory_id"`
	SaleCode          string    `gorm:"size:20;uniqueIndex" json:"sale_code"`
	SaleDate          Date      `gorm:"index;not null" json:"sale_date" validate:"required"`
	CustomerID        *uint     `gorm:"index" json:"customer_id"`
	Customer          *Customer `json:"customer,omitempty" validate:"-"`
	CustomerName      string    `gorm:"size:255" json:"customer_name"`
	CustomerType      string    `gorm:"size:20;default:RETAIL" json:"customer_type" validate:"omitempty,oneof=RETAIL BULK_BUYER DISTRIBUTOR CATERING HOTEL OTHER"`
	GariType          string    `gorm:"size:10;default:WHITE" json:"gari_type" validate:"omitempty,oneof=WHITE YELLOW"`
	GariGrade         string    `gorm:"size:10;default:FINE" json:"gari_grade" validate:"omitempty,oneof=FINE COARSE MIXED"`
	PackagingType     string    `gorm:"size:20;default:1KG_POUCH" json:"packaging_type" validate:"omitempty,oneof=1KG_POUCH 2KG_POUCH 5KG_PACK 50KG_BAG BULK"`
	QuantityKg        float64   `json:"quantity_kg" validate:"gte=0"`
	QuantityUnits     int       `json:"quantity_units" validate:"gte=0"`
	UnitPrice         float64   `json:"unit_price" validate:"gte=0"`
	Discount          float64   `json:"discount" validate:"gte=0"`
	CostPerKg         float64   `json:"cost_per_kg" validate:"gte=0"`
	PaymentMethod     string    `gorm:"size:20;default:CASH" json:"payment_method" validate:"omitempty,oneof=CASH TRANSFER POS CHEQUE CREDIT"`
	AmountPaid        float64   `json:"amount_paid" validate:"gte=0"`
	SalesChannel      string    `gorm:"size:255" json:"sales_channel"`
	Notes             string    `gorm:"type:text" json:"notes"`

	TotalAmount        float64 `json:"total_amount"`
	FinalAmount        float64 `json:"final_amount"`
	TotalCost          float64 `json:"total_cost"`
	GrossMargin        float64 `json:"gross_margin"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	AmountOutstanding  float64 `json:"amount_outstanding"`
	PaymentStatus      string  `gorm:"size:20;index" json:"payment_status"`
}

func (Sale) TableName() string { return "gari_sales" }
