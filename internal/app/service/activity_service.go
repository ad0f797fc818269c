package service

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
)

type ActivityService interface {
	// Record never fails the calling operation; errors are only logged
	Record(userID uint, storeID *uint, action, details string)
	List(filter repository.ActivityFilter) ([]model.ActivityLog, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) Record(userID uint, storeID *uint, action, details string) {
	entry := &model.ActivityLog{
		UserID:  userID,
		StoreID: storeID,
		Action:  action,
		Details: details,
	}
	if err := s.activityRepo.Create(entry); err != nil {
		logger.Warn("Activity not recorded", map[string]interface{}{
			"user_id": userID,
			"action":  action,
			"error":   err.Error(),
		})
	}
}

func (s *activityService) List(filter repository.ActivityFilter) ([]model.ActivityLog, error) {
	return s.activityRepo.FindRecent(filter)
}
