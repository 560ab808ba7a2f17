package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/config"
	"github.com/clinicore/hospital-portal/internal/logger"
	"github.com/clinicore/hospital-portal/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Get().Fatalw("failed to connect database", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Get().Fatalw("failed to get sql.DB", "error", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Centre{},
		&models.Profile{},
		&models.Patient{},
		&models.Appointment{},
		&models.Consultation{},
		&models.Hospitalization{},
		&models.Emergency{},
		&models.Prescription{},
		&models.AuditLog{},
	); err != nil {
		logger.Get().Fatalw("failed to migrate", "error", err)
	}

	return db
}
