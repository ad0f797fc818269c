package repository

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BackupRepository interface {
	GetSettings() (*model.BackupSettings, error)
	SaveSettings(settings *model.BackupSettings) error
	CreateRecord(record *model.BackupRecord) error
	FindRecordByID(id uint) (*model.BackupRecord, error)
	ListRecords(limit int) ([]model.BackupRecord, error)
	LoadSnapshot() (*model.BackupSnapshot, error)
	ReplaceAll(snapshot *model.BackupSnapshot) error
}

type backupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) BackupRepository {
	return &backupRepository{db: db}
}

// GetSettings returns the single settings row, creating it with defaults
func (r *backupRepository) GetSettings() (*model.BackupSettings, error) {
	var settings model.BackupSettings
	err := r.db.Order("id ASC").Attrs(model.DefaultBackupSettings()).FirstOrCreate(&settings).Error
	if err != nil {
		logger.Error("Failed to load backup settings", err)
		return nil, err
	}
	return &settings, nil
}

func (r *backupRepository) SaveSettings(settings *model.BackupSettings) error {
	current, err := r.GetSettings()
	if err != nil {
		return err
	}
	settings.ID = current.ID

	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save backup settings", err, map[string]interface{}{
			"auto_backup": settings.AutoBackup,
			"frequency":   settings.Frequency,
			"time":        settings.Time,
		})
		return err
	}

	logger.Info("Backup settings saved", map[string]interface{}{
		"auto_backup": settings.AutoBackup,
		"frequency":   settings.Frequency,
		"time":        settings.Time,
	})
	return nil
}

func (r *backupRepository) CreateRecord(record *model.BackupRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		logger.Error("Failed to create backup record", err, map[string]interface{}{
			"key": record.Key,
		})
		return err
	}
	return nil
}

func (r *backupRepository) FindRecordByID(id uint) (*model.BackupRecord, error) {
	var record model.BackupRecord
	if err := r.db.First(&record, id).Error; err != nil {
		logger.Error("Failed to find backup record", err, map[string]interface{}{
			"backup_id": id,
		})
		return nil, err
	}
	return &record, nil
}

func (r *backupRepository) ListRecords(limit int) ([]model.BackupRecord, error) {
	query := r.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []model.BackupRecord
	if err := query.Find(&records).Error; err != nil {
		logger.Error("Failed to list backup records", err)
		return nil, err
	}
	return records, nil
}

// LoadSnapshot reads every live row of the business tables
func (r *backupRepository) LoadSnapshot() (*model.BackupSnapshot, error) {
	logger.Debug("Loading backup snapshot from database")

	snapshot := &model.BackupSnapshot{
		Version:    model.BackupVersion,
		Users:      []model.BackupUser{},
		Stores:     []model.Store{},
		Categories: []model.Category{},
		Products:   []model.Product{},
		Clients:    []model.Client{},
		Orders:     []model.Order{},
	}

	var users []model.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		logger.Error("Failed to load users for backup", err)
		return nil, err
	}
	for _, u := range users {
		snapshot.Users = append(snapshot.Users, model.NewBackupUser(u))
	}

	steps := []struct {
		name string
		dest interface{}
		db   *gorm.DB
	}{
		{"stores", &snapshot.Stores, r.db},
		{"categories", &snapshot.Categories, r.db},
		{"products", &snapshot.Products, r.db},
		{"clients", &snapshot.Clients, r.db},
		{"orders", &snapshot.Orders, r.db.Preload("Items")},
	}
	for _, step := range steps {
		if err := step.db.Order("id ASC").Find(step.dest).Error; err != nil {
			logger.Error("Failed to load table for backup", err, map[string]interface{}{
				"table": step.name,
			})
			return nil, err
		}
	}

	logger.Debug("Backup snapshot loaded", map[string]interface{}{
		"users":      len(snapshot.Users),
		"stores":     len(snapshot.Stores),
		"categories": len(snapshot.Categories),
		"products":   len(snapshot.Products),
		"clients":    len(snapshot.Clients),
		"orders":     len(snapshot.Orders),
	})
	return snapshot, nil
}

// ReplaceAll clears the business tables and inserts the snapshot rows with
// their original ids, all in one transaction.
func (r *backupRepository) ReplaceAll(snapshot *model.BackupSnapshot) error {
	logger.Info("Replacing database contents from snapshot", map[string]interface{}{
		"users":  len(snapshot.Users),
		"stores": len(snapshot.Stores),
		"orders": len(snapshot.Orders),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&model.OrderItem{},
			&model.Order{},
			&model.Client{},
			&model.Product{},
			&model.Category{},
			&model.User{},
			&model.Store{},
		}
		for _, m := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				logger.Error("Failed to clear table during restore", err)
				return err
			}
		}

		users := make([]model.User, len(snapshot.Users))
		for i, u := range snapshot.Users {
			users[i] = u.User()
		}

		var items []model.OrderItem
		orders := make([]model.Order, len(snapshot.Orders))
		for i, o := range snapshot.Orders {
			for _, item := range o.Items {
				item.OrderID = o.ID
				items = append(items, item)
			}
			o.Items = nil
			orders[i] = o
		}

		inserts := []struct {
			table string
			rows  interface{}
			count int
		}{
			{"stores", &snapshot.Stores, len(snapshot.Stores)},
			{"users", &users, len(users)},
			{"categories", &snapshot.Categories, len(snapshot.Categories)},
			{"products", &snapshot.Products, len(snapshot.Products)},
			{"clients", &snapshot.Clients, len(snapshot.Clients)},
			{"orders", &orders, len(orders)},
			{"order_items", &items, len(items)},
		}
		for _, ins := range inserts {
			if ins.count == 0 {
				continue
			}
			if err := tx.Omit(clause.Associations).CreateInBatches(ins.rows, 200).Error; err != nil {
				logger.Error("Failed to insert rows during restore", err, map[string]interface{}{
					"table": ins.table,
				})
				return err
			}
		}

		if tx.Dialector.Name() == "postgres" {
			for _, ins := range inserts {
				if err := resetSequence(tx, ins.table); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// resetSequence moves a postgres serial past the restored ids
func resetSequence(tx *gorm.DB, table string) error {
	sql := "SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM " + table + "), 0) + 1, false)"
	if err := tx.Exec(sql, table).Error; err != nil {
		logger.Error("Failed to reset sequence after restore", err, map[string]interface{}{
			"table": table,
		})
		return err
	}
	return nil
}
