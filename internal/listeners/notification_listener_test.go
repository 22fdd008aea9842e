package listeners

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/pkg/constants"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/types"
)

type fakeNotifier struct {
	sent []entities.Notification
	err  error
}

func (f *fakeNotifier) GetMyNotifications(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error) {
	return f.sent, uint64(len(f.sent)), nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id uint64) error { return nil }

func (f *fakeNotifier) Notify(ctx context.Context, n *entities.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, *n)
	return nil
}

func TestFormatDecisionMessage(t *testing.T) {
	cases := []struct {
		name  string
		event events.ApprovalDecidedEvent
		want  string
	}{
		{
			name:  "промежуточное одобрение",
			event: events.ApprovalDecidedEvent{EntryID: 12, StageName: "HR", StageStatus: constants.StatusApproved, EntryStatus: constants.StatusPending},
			want:  "Заявка #12 одобрена на этапе HR",
		},
		{
			name:  "последнее одобрение",
			event: events.ApprovalDecidedEvent{EntryID: 3, StageName: "ACCOUNTS", StageStatus: constants.StatusApproved, EntryStatus: constants.StatusApproved},
			want:  "Заявка #3 одобрена на этапе ACCOUNTS. Заявка полностью согласована",
		},
		{
			name:  "отказ с причиной",
			event: events.ApprovalDecidedEvent{EntryID: 7, StageName: "MANAGER", StageStatus: constants.StatusRejected, EntryStatus: constants.StatusRejected, Note: " нет замены "},
			want:  "Заявка #7 отклонена на этапе MANAGER. Комментарий: нет замены",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatDecisionMessage(tc.event))
		})
	}
}

func TestHandleApprovalDecided(t *testing.T) {
	notifier := &fakeNotifier{}
	l := NewNotificationListener(notifier, zap.NewNop())

	err := l.handleApprovalDecided(context.Background(), events.ApprovalDecidedEvent{
		Kind: constants.KindLeave, EntryID: 12, EmployeeID: 5,
		StageName: "HR", StageStatus: constants.StatusApproved, EntryStatus: constants.StatusPending,
	})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint64(5), notifier.sent[0].EmployeeID)
	assert.Equal(t, constants.KindTitles[constants.KindLeave], notifier.sent[0].Title)
	assert.Equal(t, constants.KindLeave, notifier.sent[0].EntryKind)

	// без сотрудника уведомлять некого
	require.NoError(t, l.handleApprovalDecided(context.Background(), events.ApprovalDecidedEvent{EntryID: 1}))
	assert.Len(t, notifier.sent, 1)
}

func TestHandleApprovalDecidedError(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("db down")}
	l := NewNotificationListener(notifier, zap.NewNop())

	err := l.handleApprovalDecided(context.Background(), events.ApprovalDecidedEvent{Kind: constants.KindTravel, EntryID: 2, EmployeeID: 9})
	assert.ErrorContains(t, err, "db down")
}

func TestRegisterDeliversThroughBus(t *testing.T) {
	notifier := &fakeNotifier{}
	bus := eventbus.New(zap.NewNop())
	NewNotificationListener(notifier, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.ApprovalDecidedEvent{
		Kind: constants.KindPermission, EntryID: 4, EmployeeID: 8,
		StageName: "MANAGER", StageStatus: constants.StatusApproved, EntryStatus: constants.StatusApproved,
	})
	bus.Wait()

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint64(4), notifier.sent[0].EntryID)
}
