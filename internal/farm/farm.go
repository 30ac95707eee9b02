package farm

import (
	"strings"

	"farmadmin/internal/crud"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Routes mounts farms, site types, sites, farm zones and seasons.
func Routes(r fiber.Router, log *zap.Logger) {
	crud.Mount(r, "/farms", "general.farms", FarmHandlers(log))
	crud.Mount(r, "/site-types", "general.site-types", SiteTypeHandlers(log))
	crud.Mount(r, "/sites", "general.sites", SiteHandlers(log))
	crud.Mount(r, "/farm-zones", "general.farm-zones", ZoneHandlers(log))
	crud.Mount(r, "/seasons", "general.seasons", SeasonHandlers(log))
}

func FarmHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Farm]{
		Name:          "Farm",
		Scope:         crud.ByFarm("id"),
		EntityType:    "farm",
		Order:         "name ASC",
		Filters:       map[string]string{"status": "status", "farm_type": "farm_type"},
		SearchColumns: []string{"name", "farm_code", "town"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, f *models.Farm, creating bool) error {
			if f.Status == "" {
				f.Status = models.FarmStatusActive
			}
			f.DefaultCurrency = strings.ToUpper(f.DefaultCurrency)
			if f.FarmCode == "" {
				code, err := crud.NextSequence(tx, &models.Farm{}, "farm_code", "FARM-", 4)
				if err != nil {
					return err
				}
				f.FarmCode = code
			}
			return nil
		},
		Check: func(tx *gorm.DB, f *models.Farm) error {
			return crud.Unique(tx, &models.Farm{}, "farm_code", f.FarmCode, f.ID)
		},
	})
}

func SiteTypeHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.SiteType]{
		Name:       "Site type",
		EntityType: "site_type",
		Order:      "name ASC",
		Logger:     log,
		Prepare: func(tx *gorm.DB, st *models.SiteType, creating bool) error {
			st.Code = strings.ToLower(strings.TrimSpace(st.Code))
			st.CodePrefix = strings.ToUpper(strings.TrimSpace(st.CodePrefix))
			return nil
		},
		Check: func(tx *gorm.DB, st *models.SiteType) error {
			return crud.Unique(tx, &models.SiteType{}, "code", st.Code, st.ID)
		},
	})
}

func SiteHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Site]{
		Name:          "Site",
		Scope:         crud.ByFarm("farm_id"),
		EntityType:    "site",
		Preloads:      []string{"Farm"},
		Order:         "name ASC",
		Filters:       map[string]string{"farm_id": "farm_id", "type": "type"},
		SearchColumns: []string{"name", "code"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, s *models.Site, creating bool) error {
			if s.Code != "" || s.Type == "" {
				return nil
			}
			code, err := nextSiteCode(tx, s.Type)
			if err != nil {
				return err
			}
			s.Code = code
			return nil
		},
		Check: func(tx *gorm.DB, s *models.Site) error {
			if err := crud.CheckRefs(tx, crud.To("farm_id", &models.Farm{}, s.FarmID)); err != nil {
				return err
			}
			var n int64
			if err := tx.Model(&models.SiteType{}).Where("code = ?", s.Type).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return respond.Invalid("type", "The selected type is invalid.")
			}
			return nil
		},
	})
}

// nextSiteCode numbers sites per type using the type's code prefix, falling
// back to the first three letters of the type code.
func nextSiteCode(tx *gorm.DB, siteType string) (string, error) {
	var st models.SiteType
	prefix := ""
	if err := tx.Where("code = ?", siteType).First(&st).Error; err == nil {
		prefix = st.CodePrefix
	}
	if prefix == "" {
		prefix = strings.ToUpper(siteType)
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
	}
	return crud.NextSequence(tx, &models.Site{}, "code", prefix+"-", 3)
}

func ZoneHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Zone]{
		Name:          "Farm zone",
		Scope:         crud.BySiteFarm(),
		EntityType:    "farm_zone",
		Preloads:      []string{"Site.Farm", "Crop"},
		Order:         "name ASC",
		Filters:       map[string]string{"site_id": "site_id", "crop_id": "crop_id"},
		SearchColumns: []string{"name", "code"},
		Logger:        log,
		Check: func(tx *gorm.DB, z *models.Zone) error {
			return crud.CheckRefs(tx,
				crud.To("site_id", &models.Site{}, z.SiteID),
				crud.ToOptional("crop_id", &models.Crop{}, z.CropID),
			)
		},
	})
}

func SeasonHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Season]{
		Name:       "Season",
		Scope:      crud.ByFarm("farm_id"),
		EntityType: "season",
		Preloads:   []string{"Farm"},
		Order:      "start_date DESC",
		Filters:    map[string]string{"farm_id": "farm_id", "status": "status"},
		DateColumn: "start_date",
		Logger:     log,
		Prepare: func(tx *gorm.DB, s *models.Season, creating bool) error {
			if s.Status == "" {
				s.Status = models.SeasonPlanned
			}
			s.DefaultEndDate()
			return nil
		},
		Check: func(tx *gorm.DB, s *models.Season) error {
			if s.EndDate != nil && s.EndDate.Before(s.StartDate.Time) {
				return respond.Invalid("end_date", "The end date field must be a date after or equal to start date.")
			}
			return crud.CheckRefs(tx, crud.To("farm_id", &models.Farm{}, s.FarmID))
		},
	})
}
