package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sylvain-Z/signalcampus-backend/internal/config"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Signalement{},
		&models.SystemLog{},
	)
}

// EnsureSystemReporter seeds the reserved identity that owns anonymous
// urgent signalements and returns its ID. The empty password hash never
// matches a bcrypt comparison, so the account cannot authenticate.
func EnsureSystemReporter(db *gorm.DB) (uuid.UUID, error) {
	var user models.User
	err := db.Where("login = ?", models.SystemReporterLogin).First(&user).Error
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	user = models.User{
		ID:       uuid.New(),
		Login:    models.SystemReporterLogin,
		Password: "",
		Role:     models.RoleReporter,
	}
	if err := db.Create(&user).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to seed system reporter: %w", err)
	}
	slog.Info("system reporter seeded", "login", user.Login)
	return user.ID, nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
