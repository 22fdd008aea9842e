package listeners

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/internal/services"
	"hr-system/pkg/constants"
	"hr-system/pkg/eventbus"
)

// NotificationListener сообщает сотруднику о решениях по его заявкам.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ApprovalDecidedName, l.handleApprovalDecided)
	l.logger.Info("NotificationListener подписан на событие", zap.String("event", events.ApprovalDecidedName))
}

func (l *NotificationListener) handleApprovalDecided(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ApprovalDecidedEvent)
	if !ok || e.EmployeeID == 0 {
		return nil
	}

	n := &entities.Notification{
		EmployeeID: e.EmployeeID,
		Title:      kindTitle(e.Kind),
		Message:    formatDecisionMessage(e),
		EntryKind:  e.Kind,
		EntryID:    e.EntryID,
	}
	if err := l.notificationService.Notify(ctx, n); err != nil {
		return fmt.Errorf("уведомление по заявке %s #%d: %w", e.Kind, e.EntryID, err)
	}

	l.logger.Debug("Уведомление отправлено",
		zap.Uint64("employeeID", e.EmployeeID),
		zap.String("kind", string(e.Kind)),
		zap.Uint64("entryID", e.EntryID),
	)
	return nil
}

func kindTitle(kind constants.EntryKind) string {
	if title, ok := constants.KindTitles[kind]; ok {
		return title
	}
	return "Заявка"
}

// formatDecisionMessage: "Заявка #12 одобрена на этапе HR" (+ итог и причина).
func formatDecisionMessage(e events.ApprovalDecidedEvent) string {
	verb := "одобрена"
	if e.StageStatus == constants.StatusRejected {
		verb = "отклонена"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Заявка #%d %s на этапе %s", e.EntryID, verb, e.StageName)
	switch {
	case e.EntryStatus == constants.StatusApproved:
		sb.WriteString(". Заявка полностью согласована")
	case e.EntryStatus == constants.StatusRejected && e.StageStatus == constants.StatusRejected:
		// отказ уже сказан выше
	case e.EntryStatus == constants.StatusRejected:
		sb.WriteString(". Заявка отклонена")
	}
	if note := strings.TrimSpace(e.Note); note != "" {
		fmt.Fprintf(&sb, ". Комментарий: %s", note)
	}
	return sb.String()
}
