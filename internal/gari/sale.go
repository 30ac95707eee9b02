package gari

import (
	"errors"

	"farmadmin/internal/crud"
	"farmadmin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SaleHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Sale]{
		Name:       "Sale",
		Scope:      crud.ByFarm("farm_id"),
		EntityType: "gari_sale",
		Preloads:   []string{"Farm", "Customer"},
		Order:      "sale_date DESC, id DESC",
		Filters: map[string]string{
			"farm_id":        "farm_id",
			"customer_id":    "customer_id",
			"customer_type":  "customer_type",
			"payment_status": "payment_status",
			"packaging_type": "packaging_type",
		},
		DateColumn:    "sale_date",
		SearchColumns: []string{"sale_code", "customer_name"},
		Logger:        log,
		Prepare:       prepareSale,
		Check: func(tx *gorm.DB, s *models.Sale) error {
			return crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, s.FarmID),
				crud.ToOptional("customer_id", &models.Customer{}, s.CustomerID),
				crud.ToOptional("gari_production_batch_id", &models.ProductionBatch{}, s.ProductionBatchID),
				crud.ToOptional("gari_inventory_id", &models.InventoryItem{}, s.InventoryItemID),
			)
		},
		AfterCreate: deductStock,
	})
}

func prepareSale(tx *gorm.DB, s *models.Sale, creating bool) error {
	if creating {
		if s.SaleCode == "" {
			s.SaleCode = "SALE-" + crud.RandomCode(8)
		}
		if s.CostPerKg == 0 {
			s.CostPerKg = lookupCostPerKg(tx, s)
		}
	}
	// stock matching reads these before the row is reloaded
	if s.GariType == "" {
		s.GariType = "WHITE"
	}
	if s.GariGrade == "" {
		s.GariGrade = "FINE"
	}
	if s.PackagingType == "" {
		s.PackagingType = "1KG_POUCH"
	}
	if s.CustomerName == "" && s.CustomerID != nil {
		var customer models.Customer
		if err := tx.First(&customer, *s.CustomerID).Error; err == nil {
			s.CustomerName = customer.Name
		}
	}
	s.Derive()
	return nil
}

// lookupCostPerKg takes the unit cost from the sold batch, or from the
// inventory item when one is named.
func lookupCostPerKg(tx *gorm.DB, s *models.Sale) float64 {
	cost := 0.0
	if s.ProductionBatchID != nil {
		var batch models.ProductionBatch
		if err := tx.First(&batch, *s.ProductionBatchID).Error; err == nil {
			cost = batch.CostPerKgGari
		}
	}
	if cost == 0 && s.InventoryItemID != nil {
		var item models.InventoryItem
		if err := tx.First(&item, *s.InventoryItemID).Error; err == nil && item.CostPerKg != nil {
			cost = *item.CostPerKg
		}
	}
	return cost
}

// deductStock takes the sold quantity out of inventory. A named item is used
// directly; otherwise the oldest in-stock item of the batch with matching
// type and grade, preferring matching packaging.
func deductStock(tx *gorm.DB, s *models.Sale) error {
	var item models.InventoryItem
	switch {
	case s.InventoryItemID != nil:
		if err := tx.First(&item, *s.InventoryItemID).Error; err != nil {
			return err
		}
	case s.ProductionBatchID != nil:
		base := tx.Where("production_batch_id = ? AND gari_type = ? AND gari_grade = ? AND status = ? AND quantity_kg > 0",
			*s.ProductionBatchID, s.GariType, s.GariGrade, models.InventoryInStock).
			Order("production_date ASC").Order("created_at ASC").
			Session(&gorm.Session{})

		err := base.Where("packaging_type = ?", s.PackagingType).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = base.First(&item).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// batch not yet moved into inventory
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Model(s).Update("inventory_item_id", item.ID).Error; err != nil {
			return err
		}
		s.InventoryItemID = &item.ID
	default:
		return nil
	}

	remaining := item.QuantityKg - s.QuantityKg
	if remaining <= 0 {
		item.QuantityKg = 0
		item.Status = models.InventorySold
	} else {
		item.QuantityKg = remaining
	}
	item.Derive()
	return tx.Omit("created_at").Save(&item).Error
}
