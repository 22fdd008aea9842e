package services

import (
	"context"
	"errors"
	"fmt"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/config"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.UserProfileDTO, error)
}

type AuthService struct {
	userRepo     repositories.UserRepositoryInterface
	roleRepo     repositories.RoleRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	cacheRepo    repositories.CacheRepositoryInterface
	permissions  AuthPermissionServiceInterface
	jwtService   service.JWTService
	cfg          *config.AuthConfig
	logger       *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	permissions AuthPermissionServiceInterface,
	jwtService service.JWTService,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		employeeRepo: employeeRepo,
		cacheRepo:    cacheRepo,
		permissions:  permissions,
		jwtService:   jwtService,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	login := utils.NormalizeLogin(payload.Login)
	logger := s.logger.With(zap.String("login", login))

	if err := s.checkLockout(ctx, login); err != nil {
		logger.Warn("Вход в заблокированную учётную запись")
		return nil, err
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.handleFailedLoginAttempt(ctx, login)
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.Error("Ошибка поиска пользователя", zap.Error(err))
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, login)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	s.resetLoginAttempts(ctx, login)

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Не удалось обновить время входа", zap.Error(err))
	}
	logger.Info("Пользователь вошёл в систему", zap.Uint64("userID", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	// Роль и привязка к сотруднику берутся из БД, а не из старого токена.
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserProfileDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entities.User) (*dto.AuthResponseDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(service.TokenSubject{
		UserID:     user.ID,
		RoleID:     user.RoleID,
		EmployeeID: user.EmployeeUint(),
	})
	if err != nil {
		s.logger.Error("Ошибка генерации токенов", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}
	profile, err := s.profile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
		User:         *profile,
	}, nil
}

func (s *AuthService) profile(ctx context.Context, user *entities.User) (*dto.UserProfileDTO, error) {
	profile := &dto.UserProfileDTO{
		ID:         user.ID,
		Login:      user.Login,
		RoleID:     user.RoleID,
		EmployeeID: utils.Uint64Ptr(user.EmployeeID),
	}
	if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
		profile.RoleName = role.Name
	} else {
		s.logger.Warn("Роль пользователя не найдена", zap.Uint64("roleID", user.RoleID), zap.Error(err))
	}
	if employeeID := user.EmployeeUint(); employeeID != 0 {
		if emp, err := s.employeeRepo.FindByID(ctx, nil, employeeID); err == nil {
			profile.FullName = emp.FullName
		}
	}
	permissions, err := s.permissions.GetRolePermissionsNames(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	profile.Permissions = permissions
	return profile, nil
}

func (s *AuthService) checkLockout(ctx context.Context, login string) error {
	locked, err := s.cacheRepo.Exists(ctx, fmt.Sprintf(constants.CacheKeyLoginLockout, login))
	if err != nil {
		s.logger.Warn("Не удалось проверить блокировку", zap.String("login", login), zap.Error(err))
		return nil
	}
	if locked {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, login string) {
	attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, login)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.String("login", login), zap.Error(err))
		return
	}
	if attempts == 1 {
		s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.cacheRepo.Set(ctx, fmt.Sprintf(constants.CacheKeyLoginLockout, login), "locked", s.cfg.LockoutDuration)
		s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("Учётная запись заблокирована после неудачных попыток", zap.String("login", login), zap.Int64("attempts", attempts))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, login string) {
	s.cacheRepo.Del(ctx,
		fmt.Sprintf(constants.CacheKeyLoginAttempts, login),
		fmt.Sprintf(constants.CacheKeyLoginLockout, login),
	)
}
