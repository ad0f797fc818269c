package repository

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

const defaultActivityLimit = 100

type ActivityFilter struct {
	UserID  *uint
	StoreID *uint
	Action  string
	Limit   int
}

type ActivityRepository interface {
	Create(entry *model.ActivityLog) error
	FindRecent(filter ActivityFilter) ([]model.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create activity log in database", err, map[string]interface{}{
			"user_id": entry.UserID,
			"action":  entry.Action,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindRecent(filter ActivityFilter) ([]model.ActivityLog, error) {
	logger.Debug("Finding activity logs", map[string]interface{}{
		"user_id":  filter.UserID,
		"store_id": filter.StoreID,
		"action":   filter.Action,
		"limit":    filter.Limit,
	})

	query := r.db.Model(&model.ActivityLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	var entries []model.ActivityLog
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		logger.Error("Failed to find activity logs", err)
		return nil, err
	}
	return entries, nil
}
