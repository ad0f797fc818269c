package repository

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserFilter struct {
	StoreID *uint
	Role    model.UserRole
}

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByLogin(login string) (*model.User, error)
	FindAll(filter UserFilter) ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"login": user.Login,
		"role":  user.Role,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"login": user.Login,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"login":   user.Login,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.Preload("Store").First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Debug("User found by ID in database", map[string]interface{}{
		"user_id": user.ID,
		"login":   user.Login,
	})
	return &user, nil
}

func (r *userRepository) FindByLogin(login string) (*model.User, error) {
	logger.Debug("Finding user by login in database", map[string]interface{}{
		"login": login,
	})

	var user model.User
	if err := r.db.Where("login = ?", login).First(&user).Error; err != nil {
		// not found is the normal wrong-login path, callers log it
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find user by login in database", err, map[string]interface{}{
				"login": login,
			})
		}
		return nil, err
	}

	logger.Debug("User found by login in database", map[string]interface{}{
		"user_id": user.ID,
		"login":   user.Login,
	})
	return &user, nil
}

func (r *userRepository) FindAll(filter UserFilter) ([]model.User, error) {
	logger.Debug("Finding users in database", map[string]interface{}{
		"store_id": filter.StoreID,
		"role":     filter.Role,
	})

	query := r.db.Model(&model.User{}).Preload("Store")
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var users []model.User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		logger.Error("Failed to find users in database", err)
		return nil, err
	}

	logger.Debug("Users found in database", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"login":   user.Login,
	})

	if err := r.db.Omit("Store").Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Debug("User updated in database", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Delete(&model.User{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete user from database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("User deleted from database", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
