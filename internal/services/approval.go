package services

import (
	"context"
	"errors"
	"strings"

	"hr-system/config"
	"hr-system/internal/authz"
	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/events"
	"hr-system/internal/repositories"
	"hr-system/internal/workflow"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/eventbus"
	"hr-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventPublisher - то, что нужно сервису от шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type ApprovalServiceInterface interface {
	Decide(ctx context.Context, kind constants.EntryKind, entryID uint64, payload dto.DecisionDTO) (*dto.DecisionResultDTO, error)
	BulkDecide(ctx context.Context, kind constants.EntryKind, payload dto.BulkDecisionDTO) ([]dto.BulkDecisionResultDTO, error)
	Inbox(ctx context.Context, kinds []constants.EntryKind, filter types.Filter) ([]dto.InboxItemDTO, uint64, error)
	History(ctx context.Context, kind constants.EntryKind, entryID uint64) (*dto.ApprovalHistoryDTO, error)
}

type ApprovalService struct {
	txManager    repositories.TxManagerInterface
	approvalRepo repositories.ApprovalRepositoryInterface
	workflow     *config.Workflow
	publisher    EventPublisher
	logger       *zap.Logger
}

func NewApprovalService(
	txManager repositories.TxManagerInterface,
	approvalRepo repositories.ApprovalRepositoryInterface,
	wf *config.Workflow,
	publisher EventPublisher,
	logger *zap.Logger,
) ApprovalServiceInterface {
	return &ApprovalService{
		txManager:    txManager,
		approvalRepo: approvalRepo,
		workflow:     wf,
		publisher:    publisher,
		logger:       logger,
	}
}

func stageStates(stages []entities.Approval) []workflow.StageState {
	states := make([]workflow.StageState, 0, len(stages))
	for _, st := range stages {
		states = append(states, workflow.StageState{Stage: st.Stage, Name: st.StageName, Status: st.Status})
	}
	return states
}

func workflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrNoteRequired), errors.Is(err, workflow.ErrInvalidDecision):
		return apperrors.NewBadRequest("%s", err.Error())
	case errors.Is(err, workflow.ErrAlreadyFinal), errors.Is(err, workflow.ErrNoStages):
		return apperrors.NewConflict("%s", err.Error())
	}
	return err
}

func (s *ApprovalService) Decide(ctx context.Context, kind constants.EntryKind, entryID uint64, payload dto.DecisionDTO) (*dto.DecisionResultDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	decision := constants.Decision(payload.Decision)
	payload.Note = strings.TrimSpace(payload.Note)

	var (
		result dto.DecisionResultDTO
		header *entities.EntryHeader
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		header, err = s.approvalRepo.LockEntry(ctx, tx, kind, entryID)
		if err != nil {
			return err
		}
		if header.Status != constants.StatusPending {
			return apperrors.NewConflict("Заявка уже %s", statusTitle(header.Status))
		}
		stages, err := s.approvalRepo.ListStages(ctx, tx, kind, entryID)
		if err != nil {
			return err
		}
		states := stageStates(stages)
		idx, ok := workflow.CurrentStage(states)
		if !ok {
			return workflowError(workflow.ErrAlreadyFinal)
		}
		current := stages[idx]

		// Этап, убранный из маршрута после создания заявки, согласует только override.
		def, _ := s.workflow.Stage(kind, current.StageName)
		owner := authz.Owner{EmployeeID: header.EmployeeID, ManagerID: header.ManagerID, CreatedBy: header.CreatedBy}
		if !authz.CanApproveStage(actor, owner, def) {
			return apperrors.NewForbidden("Нет права принимать решение на этапе %s", current.StageName)
		}

		transition, err := workflow.Decide(states, decision, payload.Note)
		if err != nil {
			return workflowError(err)
		}
		if err := s.approvalRepo.DecideStage(ctx, tx, kind, current.ID, transition.StageStatus, actor.UserID, payload.Note); err != nil {
			return err
		}
		if transition.EntryStatus.IsFinal() {
			if err := s.approvalRepo.SetEntryStatus(ctx, tx, kind, entryID, transition.EntryStatus); err != nil {
				return err
			}
		}
		result = dto.DecisionResultDTO{
			Kind:        kind,
			EntryID:     entryID,
			Stage:       current.Stage,
			StageName:   current.StageName,
			StageStatus: transition.StageStatus,
			EntryStatus: transition.EntryStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Принято решение по заявке",
		zap.String("kind", string(kind)),
		zap.Uint64("entryID", entryID),
		zap.String("stage", result.StageName),
		zap.String("stageStatus", string(result.StageStatus)),
		zap.String("entryStatus", string(result.EntryStatus)),
		zap.Uint64("userID", actor.UserID),
	)
	s.publisher.Publish(ctx, events.ApprovalDecidedEvent{
		Kind:        kind,
		EntryID:     entryID,
		EmployeeID:  header.EmployeeID,
		Stage:       result.Stage,
		StageName:   result.StageName,
		StageStatus: result.StageStatus,
		EntryStatus: result.EntryStatus,
		ActorUserID: actor.UserID,
		Note:        payload.Note,
	})
	return &result, nil
}

// BulkDecide решает по каждой заявке в отдельной транзакции. Ошибка одной не мешает остальным.
func (s *ApprovalService) BulkDecide(ctx context.Context, kind constants.EntryKind, payload dto.BulkDecisionDTO) ([]dto.BulkDecisionResultDTO, error) {
	if _, err := actorFromCtx(ctx); err != nil {
		return nil, err
	}
	results := make([]dto.BulkDecisionResultDTO, 0, len(payload.EntryIDs))
	seen := make(map[uint64]bool, len(payload.EntryIDs))
	for _, id := range payload.EntryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		item := dto.BulkDecisionResultDTO{EntryID: id, OK: true}
		if _, err := s.Decide(ctx, kind, id, dto.DecisionDTO{Decision: payload.Decision, Note: payload.Note}); err != nil {
			item.OK = false
			item.Error = err.Error()
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *ApprovalService) Inbox(ctx context.Context, kinds []constants.EntryKind, filter types.Filter) ([]dto.InboxItemDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(kinds) == 0 {
		kinds = constants.ApprovableKinds
	}
	q := repositories.InboxQuery{
		Kinds:            kinds,
		ActorEmployeeID:  actor.EmployeeID,
		ManagerStages:    make(map[constants.EntryKind][]string),
		PermissionStages: make(map[constants.EntryKind][]string),
		AnyStage:         actor.HasPermission(authz.ApprovalsOverride),
		Limit:            filter.Limit,
		Offset:           filter.Offset,
		Paginate:         filter.WithPagination,
	}
	for _, kind := range kinds {
		for _, st := range s.workflow.Stages(kind) {
			switch st.Approver {
			case config.ApproverReportingManager:
				if actor.EmployeeID != 0 {
					q.ManagerStages[kind] = append(q.ManagerStages[kind], st.Name)
				}
			case config.ApproverPermission:
				if actor.HasPermission(st.Permission) {
					q.PermissionStages[kind] = append(q.PermissionStages[kind], st.Name)
				}
			}
		}
	}
	return s.approvalRepo.Inbox(ctx, q)
}

func (s *ApprovalService) History(ctx context.Context, kind constants.EntryKind, entryID uint64) (*dto.ApprovalHistoryDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	header, err := s.approvalRepo.GetEntryHeader(ctx, kind, entryID)
	if err != nil {
		return nil, err
	}
	if err := canView(actor, header.EmployeeID, header.ManagerID, header.CreatedBy); err != nil {
		return nil, err
	}
	stages, err := s.approvalRepo.ListStages(ctx, nil, kind, entryID)
	if err != nil {
		return nil, err
	}
	history := &dto.ApprovalHistoryDTO{
		Kind:        kind,
		EntryID:     entryID,
		EntryStatus: header.Status,
		Stages:      stages,
	}
	if idx, ok := workflow.CurrentStage(stageStates(stages)); ok && header.Status == constants.StatusPending {
		stage := stages[idx].Stage
		history.CurrentStage = &stage
	}
	return history, nil
}
