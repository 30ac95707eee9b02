package harvest

import (
	"farmadmin/internal/crud"
	"farmadmin/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Routes(r fiber.Router, log *zap.Logger) {
	crud.Mount(r, "/harvest-lots", "general.harvest-lots", LotHandlers(log))
}

// LotCode is HL-YYYYMMDD-XXXXXX for the harvest day.
func LotCode(lot *models.HarvestLot) string {
	return "HL-" + lot.HarvestedAt.Format("20060102") + "-" + crud.RandomCode(6)
}

func LotHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.HarvestLot]{
		Name:          "Harvest lot",
		Scope:         crud.ByFarm("farm_id"),
		EntityType:    "harvest_lot",
		Preloads:      []string{"Farm", "Zone", "Season"},
		Order:         "harvested_at DESC",
		Filters:       map[string]string{"farm_id": "farm_id", "zone_id": "zone_id", "season_id": "season_id", "quality_grade": "quality_grade"},
		DateColumn:    "harvested_at",
		SearchColumns: []string{"code", "traceability_id"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, lot *models.HarvestLot, creating bool) error {
			if lot.WeightUnit == "" {
				lot.WeightUnit = "kg"
			}
			if lot.Code == "" && !lot.HarvestedAt.IsZero() {
				lot.Code = LotCode(lot)
			}
			if lot.TraceabilityID == "" {
				lot.TraceabilityID = "HL-" + crud.RandomCode(12)
			}
			if lot.NetWeight == nil && lot.GrossWeight != nil {
				net := *lot.GrossWeight
				lot.NetWeight = &net
			}
			return nil
		},
		Check: func(tx *gorm.DB, lot *models.HarvestLot) error {
			if err := crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, lot.FarmID),
				crud.ToOptional("zone_id", &models.Zone{}, lot.ZoneID),
				crud.ToOptional("season_id", &models.Season{}, lot.SeasonID),
			); err != nil {
				return err
			}
			return crud.Unique(tx, &models.HarvestLot{}, "code", lot.Code, lot.ID)
		},
	})
}
