package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrCannotDeleteSelf   = errors.New("cannot delete own account")
)

type UserInput struct {
	Name     string
	Login    string
	Password string // empty on update keeps the current password
	Role     model.UserRole
	StoreID  *uint
}

type UserService interface {
	List(filter repository.UserFilter) ([]model.User, error)
	Get(id uint) (*model.User, error)
	Create(actorID uint, input UserInput) (*model.User, error)
	Update(actorID, id uint, input UserInput) (*model.User, error)
	Delete(actorID, id uint) error
}

type userService struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	activity  ActivityService
}

func NewUserService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	activity ActivityService,
) UserService {
	return &userService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		activity:  activity,
	}
}

func (s *userService) List(filter repository.UserFilter) ([]model.User, error) {
	return s.userRepo.FindAll(filter)
}

func (s *userService) Get(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) validate(input *UserInput, creating bool) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Login = strings.TrimSpace(input.Login)
	input.Password = strings.TrimSpace(input.Password)

	if input.Name == "" {
		return invalidf("name is required")
	}
	if input.Login == "" {
		return invalidf("login is required")
	}
	if creating && input.Password == "" {
		return invalidf("password is required")
	}
	if !input.Role.Valid() {
		return invalidf("role must be one of admin, owner, manager, employee")
	}
	if input.StoreID == nil {
		if input.Role != model.RoleAdmin {
			return invalidf("store is required for role %s", input.Role)
		}
		return nil
	}
	if _, err := s.storeRepo.FindByID(*input.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	return nil
}

func (s *userService) ensureLoginFree(login string, exceptID uint) error {
	existing, err := s.userRepo.FindByLogin(login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return ErrLoginAlreadyExists
	}
	return nil
}

func (s *userService) Create(actorID uint, input UserInput) (*model.User, error) {
	if err := s.validate(&input, true); err != nil {
		return nil, err
	}
	if err := s.ensureLoginFree(input.Login, 0); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, invalidf("password is too long")
	}

	user := &model.User{
		Name:         input.Name,
		Login:        input.Login,
		PasswordHash: hash,
		Role:         input.Role,
		StoreID:      input.StoreID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.activity.Record(actorID, user.StoreID, model.ActivityManageUser, fmt.Sprintf("created user %s", user.Login))
	logger.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"login":    user.Login,
		"role":     user.Role,
		"actor_id": actorID,
	})
	return user, nil
}

func (s *userService) Update(actorID, id uint, input UserInput) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&input, false); err != nil {
		return nil, err
	}
	if err := s.ensureLoginFree(input.Login, id); err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Login = input.Login
	user.Role = input.Role
	user.StoreID = input.StoreID
	user.Store = nil
	if input.Password != "" {
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return nil, invalidf("password is too long")
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.activity.Record(actorID, user.StoreID, model.ActivityManageUser, fmt.Sprintf("updated user %s", user.Login))
	logger.Info("User updated", map[string]interface{}{
		"user_id":          user.ID,
		"password_changed": input.Password != "",
		"actor_id":         actorID,
	})
	return user, nil
}

func (s *userService) Delete(actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	s.activity.Record(actorID, user.StoreID, model.ActivityManageUser, fmt.Sprintf("deleted user %s", user.Login))
	return nil
}
