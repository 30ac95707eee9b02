package database

import (
	"fmt"
	"strings"

	"farmadmin/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to postgres, or to sqlite when the DSN starts with "sqlite:".
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the API serves.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.MenuPermission{},
		&models.User{},
		&models.UserFarm{},
		&models.AuditLog{},

		&models.Farm{},
		&models.SiteType{},
		&models.Site{},
		&models.Crop{},
		&models.Zone{},
		&models.Season{},
		&models.Product{},
		&models.Customer{},
		&models.AssetCategory{},
		&models.Asset{},
		&models.ScaleDevice{},
		&models.HarvestLot{},
		&models.StaffAssignment{},

		&models.ProductionBatch{},
		&models.InventoryItem{},
		&models.WasteLoss{},
		&models.Sale{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Init opens and migrates the database and installs it as DB.
func Init(dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	return nil
}
