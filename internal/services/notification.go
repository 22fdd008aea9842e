package services

import (
	"context"

	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/types"
	"hr-system/pkg/utils"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error)
	MarkRead(ctx context.Context, id uint64) error
	Notify(ctx context.Context, n *entities.Notification) error
}

type NotificationService struct {
	repo   repositories.NotificationRepositoryInterface
	logger *zap.Logger
}

func NewNotificationService(repo repositories.NotificationRepositoryInterface, logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{repo: repo, logger: logger}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error) {
	employeeID := utils.GetEmployeeIDFromCtx(ctx)
	if employeeID == 0 {
		return nil, 0, apperrors.ErrNoEmployeeProfile
	}
	return s.repo.ListForEmployee(ctx, employeeID, filter)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	employeeID := utils.GetEmployeeIDFromCtx(ctx)
	if employeeID == 0 {
		return apperrors.ErrNoEmployeeProfile
	}
	return s.repo.MarkRead(ctx, id, employeeID)
}

func (s *NotificationService) Notify(ctx context.Context, n *entities.Notification) error {
	id, err := s.repo.Create(ctx, n)
	if err != nil {
		return err
	}
	s.logger.Debug("Создано уведомление", zap.Uint64("id", id), zap.Uint64("employeeID", n.EmployeeID))
	return nil
}
