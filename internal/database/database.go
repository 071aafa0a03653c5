package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/emlakpro/core/internal/config"
	"github.com/emlakpro/core/internal/models"
)

// Connect opens the MySQL connection and optionally runs migrations.
func Connect(cfg *config.AppConfig, migrate bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDev() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSNValue()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if migrate {
		if err := runMigrations(db); err != nil {
			return nil, err
		}
		zap.L().Info("database migrations completed")
	}

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserModel{},
		&models.ListingModel{},
		&models.KonutDetailsModel{},
		&models.TicariDetailsModel{},
		&models.ArsaDetailsModel{},
		&models.VasitaDetailsModel{},
		&models.AddressModel{},
		&models.ImageModel{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
