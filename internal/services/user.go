package services

import (
	"context"
	"errors"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
}

type UserService struct {
	userRepo     repositories.UserRepositoryInterface
	roleRepo     repositories.RoleRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	logger       *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, employeeRepo: employeeRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	if err := s.checkLinks(ctx, payload.RoleID, payload.EmployeeID); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{
		Login:        utils.NormalizeLogin(payload.Login),
		PasswordHash: hash,
		RoleID:       payload.RoleID,
		EmployeeID:   utils.NullUint64(payload.EmployeeID),
		IsActive:     true,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict("Логин или сотрудник уже заняты другим пользователем")
		}
		return nil, err
	}
	s.logger.Info("Создан пользователь", zap.Uint64("userID", id), zap.String("login", user.Login))
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roleID := user.RoleID
	if payload.RoleID != nil {
		roleID = *payload.RoleID
	}
	if err := s.checkLinks(ctx, roleID, payload.EmployeeID); err != nil {
		return nil, err
	}

	user.RoleID = roleID
	if payload.EmployeeID != nil {
		user.EmployeeID = utils.NullUint64(payload.EmployeeID)
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}
	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict("Сотрудник уже привязан к другому пользователю")
		}
		return nil, err
	}
	s.logger.Info("Пользователь обновлён", zap.Uint64("userID", id))
	return s.userRepo.FindByID(ctx, id)
}

// checkLinks: роль существует, сотрудник (если указан и не 0) существует.
func (s *UserService) checkLinks(ctx context.Context, roleID uint64, employeeID *uint64) error {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewBadRequest("Роль %d не найдена", roleID)
		}
		return err
	}
	if employeeID == nil || *employeeID == 0 {
		return nil
	}
	if _, err := s.employeeRepo.FindByID(ctx, nil, *employeeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewBadRequest("Сотрудник %d не найден", *employeeID)
		}
		return err
	}
	return nil
}
