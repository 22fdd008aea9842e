package routes

import (
	"hr-system/internal/controllers"
	"hr-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Права на этап (руководитель, HR, бухгалтерия) зависят от записи и проверяются в сервисе.
func runApprovalRouter(
	secureGroup *echo.Group,
	approvalService services.ApprovalServiceInterface,
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) {
	approvalCtrl := controllers.NewApprovalController(approvalService, logger)
	notificationCtrl := controllers.NewNotificationController(notificationService, logger)

	approvals := secureGroup.Group("/approvals")
	approvals.GET("/inbox", approvalCtrl.Inbox)
	approvals.GET("/:kind/:entryId", approvalCtrl.History)
	approvals.POST("/:kind/:entryId/decision", approvalCtrl.Decide)
	approvals.POST("/:kind/bulk", approvalCtrl.BulkDecide)

	secureGroup.GET("/notifications", notificationCtrl.GetMyNotifications)
	secureGroup.POST("/notifications/:id/read", notificationCtrl.MarkRead)
}
