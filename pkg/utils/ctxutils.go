package utils

import (
	"context"

	"hr-system/pkg/contextkeys"
	apperrors "hr-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func GetUserRoleIDFromCtx(ctx context.Context) (uint64, error) {
	roleID, ok := ctx.Value(contextkeys.RoleIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return roleID, nil
}

// GetEmployeeIDFromCtx возвращает 0 для учётных записей без карточки сотрудника.
func GetEmployeeIDFromCtx(ctx context.Context) uint64 {
	employeeID, _ := ctx.Value(contextkeys.EmployeeIDKey).(uint64)
	return employeeID
}

func GetPermissionsMapFromCtx(ctx context.Context) (map[string]bool, error) {
	permissions, ok := ctx.Value(contextkeys.UserPermissionsMapKey).(map[string]bool)
	if !ok || permissions == nil {
		return nil, apperrors.ErrForbidden
	}
	return permissions, nil
}

// WithActor кладёт в контекст всё, что AuthMiddleware узнаёт о пользователе.
func WithActor(ctx context.Context, userID, roleID, employeeID uint64, permissions map[string]bool) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	ctx = context.WithValue(ctx, contextkeys.RoleIDKey, roleID)
	ctx = context.WithValue(ctx, contextkeys.EmployeeIDKey, employeeID)
	return context.WithValue(ctx, contextkeys.UserPermissionsMapKey, permissions)
}
