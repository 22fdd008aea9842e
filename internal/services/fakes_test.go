package services

import (
	"context"
	"errors"
	"testing"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// fakeTx выполняет fn без транзакции.
type fakeTx struct{ calls int }

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type recordingPublisher struct {
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.events = append(p.events, event)
}

type entryKey struct {
	kind constants.EntryKind
	id   uint64
}

// fakeApprovalRepo хранит заголовки и этапы в памяти.
type fakeApprovalRepo struct {
	headers map[entryKey]*entities.EntryHeader
	stages  map[entryKey][]entities.Approval
	created map[entryKey][]string
	nextID  uint64
	inbox   repositories.InboxQuery
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{
		headers: make(map[entryKey]*entities.EntryHeader),
		stages:  make(map[entryKey][]entities.Approval),
		created: make(map[entryKey][]string),
	}
}

func (r *fakeApprovalRepo) add(h entities.EntryHeader, stageNames ...string) {
	key := entryKey{h.Kind, h.ID}
	header := h
	r.headers[key] = &header
	for i, name := range stageNames {
		r.nextID++
		r.stages[key] = append(r.stages[key], entities.Approval{
			ID: r.nextID, EntryID: h.ID, Stage: i + 1, StageName: name, Status: constants.StatusPending,
		})
	}
}

func (r *fakeApprovalRepo) CreateStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, stageNames []string) error {
	r.created[entryKey{kind, entryID}] = stageNames
	return nil
}

func (r *fakeApprovalRepo) LockEntry(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error) {
	return r.GetEntryHeader(ctx, kind, entryID)
}

func (r *fakeApprovalRepo) GetEntryHeader(ctx context.Context, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error) {
	h, ok := r.headers[entryKey{kind, entryID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *fakeApprovalRepo) ListStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) ([]entities.Approval, error) {
	return append([]entities.Approval(nil), r.stages[entryKey{kind, entryID}]...), nil
}

func (r *fakeApprovalRepo) HasDecidedStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (bool, error) {
	for _, st := range r.stages[entryKey{kind, entryID}] {
		if st.Status != constants.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApprovalRepo) DecideStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, approvalID uint64, status constants.Status, approverID uint64, note string) error {
	for key, list := range r.stages {
		if key.kind != kind {
			continue
		}
		for i := range list {
			if list[i].ID == approvalID {
				list[i].Status = status
				list[i].ApproverID.SetValid(int64(approverID))
				if note != "" {
					list[i].Note.SetValid(note)
				}
				return nil
			}
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeApprovalRepo) SetEntryStatus(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, status constants.Status) error {
	h, ok := r.headers[entryKey{kind, entryID}]
	if !ok {
		return apperrors.ErrNotFound
	}
	h.Status = status
	return nil
}

func (r *fakeApprovalRepo) Inbox(ctx context.Context, q repositories.InboxQuery) ([]dto.InboxItemDTO, uint64, error) {
	r.inbox = q
	return nil, 0, nil
}

func actorCtx(userID, employeeID uint64, permissions ...string) context.Context {
	perms := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		perms[p] = true
	}
	return utils.WithActor(context.Background(), userID, 1, employeeID, perms)
}

func requireHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr), "ожидалась HttpError, получено %v", err)
	require.Equal(t, code, httpErr.Code, httpErr.Message)
}
