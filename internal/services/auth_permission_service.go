package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"

	"go.uber.org/zap"
)

type AuthPermissionServiceInterface interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
	InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error
}

type AuthPermissionService struct {
	roleRepo  repositories.RoleRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cacheTTL  time.Duration
}

func NewAuthPermissionService(
	roleRepo repositories.RoleRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		roleRepo:  roleRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func (s *AuthPermissionService) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyRolePermissions, roleID)
	var permissions []string

	// 1. Кеш
	cached, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		if err := json.Unmarshal([]byte(cached), &permissions); err == nil {
			s.logger.Debug("AuthPermissionService: Привилегии роли найдены в кеше", zap.Uint64("roleID", roleID))
			return permissions, nil
		} else {
			s.logger.Warn("AuthPermissionService: Ошибка при десериализации привилегий из кеша", zap.Error(err), zap.String("key", cacheKey))
		}
	} else {
		s.logger.Debug("AuthPermissionService: Привилегии роли не найдены в кеше, запрос к БД", zap.Uint64("roleID", roleID), zap.Error(errGet))
	}

	// 2. БД
	permissions, errDB := s.roleRepo.GetRolePermissionsNames(ctx, roleID)
	if errDB != nil {
		s.logger.Error("AuthPermissionService: Не удалось получить привилегии для роли из БД", zap.Uint64("roleID", roleID), zap.Error(errDB))
		return nil, apperrors.ErrInternalServer
	}

	// 3. Обратно в кеш. Пустой список тоже кешируется.
	raw, errMarshal := json.Marshal(permissions)
	if errMarshal != nil {
		s.logger.Error("AuthPermissionService: Не удалось сериализовать привилегии", zap.Uint64("roleID", roleID), zap.Error(errMarshal))
		return permissions, nil
	}
	if errSet := s.cacheRepo.Set(ctx, cacheKey, string(raw), s.cacheTTL); errSet != nil {
		s.logger.Error("AuthPermissionService: Не удалось сохранить привилегии роли в кеш", zap.Uint64("roleID", roleID), zap.Error(errSet))
	}
	return permissions, nil
}

func (s *AuthPermissionService) InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error {
	cacheKey := fmt.Sprintf(constants.CacheKeyRolePermissions, roleID)
	if err := s.cacheRepo.Del(ctx, cacheKey); err != nil {
		s.logger.Error("AuthPermissionService: Ошибка инвалидации кеша привилегий", zap.Uint64("roleID", roleID), zap.Error(err))
		return err
	}
	s.logger.Info("AuthPermissionService: Кеш привилегий для роли инвалидирован", zap.Uint64("roleID", roleID))
	return nil
}
