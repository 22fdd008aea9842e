package services

import (
	"context"
	"errors"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoleServiceInterface interface {
	GetRoles(ctx context.Context) ([]dto.RoleDTO, error)
	GetPermissions(ctx context.Context) ([]entities.Permission, error)
	CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (*dto.RoleDTO, error)
	UpdateRolePermissions(ctx context.Context, roleID uint64, payload dto.UpdateRolePermissionsDTO) (*dto.RoleDTO, error)
}

type RoleService struct {
	roleRepo    repositories.RoleRepositoryInterface
	txManager   repositories.TxManagerInterface
	permissions AuthPermissionServiceInterface
	logger      *zap.Logger
}

func NewRoleService(
	roleRepo repositories.RoleRepositoryInterface,
	txManager repositories.TxManagerInterface,
	permissions AuthPermissionServiceInterface,
	logger *zap.Logger,
) RoleServiceInterface {
	return &RoleService{roleRepo: roleRepo, txManager: txManager, permissions: permissions, logger: logger}
}

func (s *RoleService) GetRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	return s.roleRepo.List(ctx)
}

func (s *RoleService) GetPermissions(ctx context.Context) ([]entities.Permission, error) {
	return s.roleRepo.ListPermissions(ctx)
}

func (s *RoleService) CreateRole(ctx context.Context, payload dto.CreateRoleDTO) (*dto.RoleDTO, error) {
	var roleID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.roleRepo.Create(ctx, tx, payload.Name, payload.Description)
		if err != nil {
			return err
		}
		roleID = id
		return s.roleRepo.ReplacePermissions(ctx, tx, id, payload.Permissions)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict("Роль '%s' уже существует", payload.Name)
		}
		return nil, err
	}
	s.logger.Info("Создана роль", zap.Uint64("roleID", roleID), zap.String("name", payload.Name))
	return s.roleRepo.FindByID(ctx, roleID)
}

// UpdateRolePermissions заменяет набор привилегий и сбрасывает кеш роли.
func (s *RoleService) UpdateRolePermissions(ctx context.Context, roleID uint64, payload dto.UpdateRolePermissionsDTO) (*dto.RoleDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.roleRepo.ReplacePermissions(ctx, tx, roleID, payload.Permissions)
	})
	if err != nil {
		return nil, err
	}
	if err := s.permissions.InvalidateRolePermissionsCache(ctx, roleID); err != nil {
		s.logger.Warn("Кеш привилегий не сброшен, изменения применятся после истечения TTL", zap.Uint64("roleID", roleID))
	}
	return s.roleRepo.FindByID(ctx, roleID)
}
