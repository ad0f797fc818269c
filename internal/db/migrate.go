package db

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	DefaultStoreName     = "EvoApps"
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "admin123"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&model.Store{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Client{},
		&model.Order{},
		&model.OrderItem{},
		&model.ActivityLog{},
		&model.BackupSettings{},
		&model.BackupRecord{},
	}
}

// Migrate runs database migrations and seeds the defaults
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", logger.Fields{
		"models_count": len(models),
	})
	return nil
}

// Seed inserts the default store, the admin user and the backup settings
// row. Each step is skipped when its table already has data.
func Seed(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedDefaultStore(db); err != nil {
		logger.Error("Failed to seed default store", err)
		return err
	}
	if err := seedAdminUser(db); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}
	if err := seedBackupSettings(db); err != nil {
		logger.Error("Failed to seed backup settings", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedDefaultStore(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Store{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Stores already seeded, skipping...", logger.Fields{
			"existing_count": count,
		})
		return nil
	}

	store := model.Store{
		Name:  DefaultStoreName,
		Theme: model.DefaultTheme(),
	}
	if err := db.Create(&store).Error; err != nil {
		return err
	}
	logger.Info("Default store created", logger.Fields{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Users already seeded, skipping...", logger.Fields{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	var store model.Store
	var storeID *uint
	if err := db.Order("id ASC").First(&store).Error; err == nil {
		storeID = &store.ID
	}

	admin := model.User{
		Name:         "Administrador",
		Login:        DefaultAdminLogin,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		StoreID:      storeID,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Warn("Default admin user created, change its password", logger.Fields{
		"login": admin.Login,
	})
	return nil
}

func seedBackupSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.BackupSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	settings := model.DefaultBackupSettings()
	return db.Create(&settings).Error
}
