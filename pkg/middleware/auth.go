package middleware

import (
	"context"
	"strings"

	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SuperuserPermission проходит любую проверку AuthorizeAny.
const SuperuserPermission = "superuser"

// PermissionProvider - источник привилегий роли (кеш + БД).
type PermissionProvider interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
}

type AuthMiddleware struct {
	jwtService  service.JWTService
	permissions PermissionProvider
	logger      *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, permissions PermissionProvider, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtSvc,
		permissions: permissions,
		logger:      logger,
	}
}

// Auth проверяет access-токен и кладёт пользователя и его привилегии в контекст.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном", zap.Uint64("userID", claims.UserID))
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		names, err := m.permissions.GetRolePermissionsNames(c.Request().Context(), claims.RoleID)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		permissionsMap := make(map[string]bool, len(names))
		for _, name := range names {
			permissionsMap[name] = true
		}

		ctx := utils.WithActor(c.Request().Context(), claims.UserID, claims.RoleID, claims.EmployeeID, permissionsMap)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: Пользователь аутентифицирован", zap.Uint64("userID", claims.UserID), zap.Int("permissions", len(names)))
		return next(c)
	}
}

// AuthorizeAny пропускает запрос, если есть хотя бы одна из привилегий.
func (m *AuthMiddleware) AuthorizeAny(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			permissions, err := utils.GetPermissionsMapFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			if permissions[SuperuserPermission] {
				return next(c)
			}
			for _, p := range required {
				if permissions[p] {
					return next(c)
				}
			}
			userID, _ := utils.GetUserIDFromCtx(c.Request().Context())
			m.logger.Warn("AuthMiddleware: Недостаточно прав",
				zap.Uint64("userID", userID),
				zap.Strings("required", required),
				zap.String("path", c.Path()),
			)
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
