package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/pkg/constants"
	apperrors "hr-system/pkg/errors"
)

// approvalTables - таблица этапов и таблица самой записи для вида.
type approvalTables struct {
	approvals string
	entries   string
}

var approvalTablesByKind = map[constants.EntryKind]approvalTables{
	constants.KindLeave:      {approvals: "leave_approvals", entries: "leave_entries"},
	constants.KindPermission: {approvals: "permission_approvals", entries: "permission_entries"},
	constants.KindCompOff:    {approvals: "hr_comp_off_approvals", entries: "comp_off_entries"},
	constants.KindTravel:     {approvals: "travel_approvals", entries: "travel_claims"},
}

func tablesFor(kind constants.EntryKind) (approvalTables, error) {
	t, ok := approvalTablesByKind[kind]
	if !ok {
		return approvalTables{}, apperrors.NewBadRequest("Неизвестный вид заявки: %s", kind)
	}
	return t, nil
}

// InboxQuery описывает, какие этапы пользователь может согласовать.
type InboxQuery struct {
	Kinds            []constants.EntryKind
	ActorEmployeeID  uint64
	ManagerStages    map[constants.EntryKind][]string // этапы руководителя
	PermissionStages map[constants.EntryKind][]string // этапы, на которые у пользователя есть привилегия
	AnyStage         bool                             // approvals:override
	Limit            int
	Offset           int
	Paginate         bool
}

type ApprovalRepositoryInterface interface {
	CreateStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, stageNames []string) error
	LockEntry(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error)
	GetEntryHeader(ctx context.Context, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error)
	ListStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) ([]entities.Approval, error)
	HasDecidedStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (bool, error)
	DecideStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, approvalID uint64, status constants.Status, approverID uint64, note string) error
	SetEntryStatus(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, status constants.Status) error
	Inbox(ctx context.Context, q InboxQuery) ([]dto.InboxItemDTO, uint64, error)
}

type ApprovalRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewApprovalRepository(storage *pgxpool.Pool, logger *zap.Logger) ApprovalRepositoryInterface {
	return &ApprovalRepository{storage: storage, logger: logger}
}

func (r *ApprovalRepository) CreateStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, stageNames []string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	if len(stageNames) == 0 {
		return fmt.Errorf("для %s не настроены этапы согласования", kind)
	}
	builder := psql.Insert(t.approvals).Columns("entry_id", "stage", "stage_name", "status", "created_at")
	for i, name := range stageNames {
		builder = builder.Values(entryID, i+1, name, constants.StatusPending, sq.Expr("NOW()"))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = pick(r.storage, tx).Exec(ctx, query, args...)
	return mapPgError(err, "этапы согласования")
}

func (r *ApprovalRepository) header(ctx context.Context, q Querier, kind constants.EntryKind, entryID uint64, lock bool) (*entities.EntryHeader, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	builder := psql.Select("x.id", "x.employee_id", "x.status", "x.created_by", "COALESCE(emp.reporting_manager_id, 0)").
		From(t.entries + " x").
		Join("employees emp ON emp.id = x.employee_id").
		Where(sq.Eq{"x.id": entryID})
	if lock {
		builder = builder.Suffix("FOR UPDATE OF x")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	h := entities.EntryHeader{Kind: kind}
	if err := q.QueryRow(ctx, query, args...).Scan(&h.ID, &h.EmployeeID, &h.Status, &h.CreatedBy, &h.ManagerID); err != nil {
		return nil, mapPgError(err, "заявка")
	}
	return &h, nil
}

// LockEntry блокирует запись до конца транзакции. Решения по одной записи идут строго по очереди.
func (r *ApprovalRepository) LockEntry(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error) {
	return r.header(ctx, tx, kind, entryID, true)
}

func (r *ApprovalRepository) GetEntryHeader(ctx context.Context, kind constants.EntryKind, entryID uint64) (*entities.EntryHeader, error) {
	return r.header(ctx, r.storage, kind, entryID, false)
}

func (r *ApprovalRepository) ListStages(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) ([]entities.Approval, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select("id", "entry_id", "stage", "stage_name", "status", "approver_id", "note", "acted_at", "created_at").
		From(t.approvals).
		Where(sq.Eq{"entry_id": entryID}).
		OrderBy("stage").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := pick(r.storage, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]entities.Approval, 0)
	for rows.Next() {
		var a entities.Approval
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Stage, &a.StageName, &a.Status, &a.ApproverID, &a.Note, &a.ActedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		stages = append(stages, a)
	}
	return stages, rows.Err()
}

func (r *ApprovalRepository) HasDecidedStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64) (bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return false, err
	}
	var decided bool
	err = pick(r.storage, tx).QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE entry_id = $1 AND status <> $2)", t.approvals),
		entryID, constants.StatusPending).Scan(&decided)
	return decided, err
}

// DecideStage фиксирует решение. Уже решённый этап не меняется.
func (r *ApprovalRepository) DecideStage(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, approvalID uint64, status constants.Status, approverID uint64, note string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	builder := psql.Update(t.approvals).
		Set("status", status).
		Set("approver_id", approverID).
		Set("note", sq.Expr("NULLIF(?, '')", note)).
		Set("acted_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": approvalID, "status": constants.StatusPending})
	err = execAffected(ctx, pick(r.storage, tx), builder, "этап согласования")
	if err == apperrors.ErrNotFound {
		return apperrors.NewConflict("Решение по этапу уже принято")
	}
	return err
}

func (r *ApprovalRepository) SetEntryStatus(ctx context.Context, tx pgx.Tx, kind constants.EntryKind, entryID uint64, status constants.Status) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	builder := psql.Update(t.entries).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": entryID})
	return execAffected(ctx, pick(r.storage, tx), builder, "заявка")
}

// inboxPart - текущие этапы одного вида, доступные пользователю. Плейсхолдеры "?".
func inboxPart(kind constants.EntryKind, t approvalTables, q InboxQuery) (sq.SelectBuilder, bool) {
	b := sq.Select(
		fmt.Sprintf("'%s'::text AS kind", kind),
		"a.entry_id", "a.id AS approval_id", "a.stage", "a.stage_name",
		fmt.Sprintf("(SELECT COUNT(*) FROM %s t WHERE t.entry_id = a.entry_id) AS total_stages", t.approvals),
		"x.employee_id", "emp.code", "emp.full_name", "x.created_at",
	).
		From(t.approvals+" a").
		Join(t.entries+" x ON x.id = a.entry_id").
		Join("employees emp ON emp.id = x.employee_id").
		Where(sq.Eq{"a.status": constants.StatusPending, "x.status": constants.StatusPending}).
		Where(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s p WHERE p.entry_id = a.entry_id AND p.stage < a.stage AND p.status <> ?)", t.approvals),
			constants.StatusApproved)

	if q.ActorEmployeeID != 0 {
		b = b.Where(sq.NotEq{"x.employee_id": q.ActorEmployeeID})
	}
	if q.AnyStage {
		return b, true
	}

	or := sq.Or{}
	if names := q.ManagerStages[kind]; len(names) > 0 && q.ActorEmployeeID != 0 {
		or = append(or, sq.And{sq.Eq{"a.stage_name": names}, sq.Eq{"emp.reporting_manager_id": q.ActorEmployeeID}})
	}
	if names := q.PermissionStages[kind]; len(names) > 0 {
		or = append(or, sq.Eq{"a.stage_name": names})
	}
	if len(or) == 0 {
		return b, false
	}
	return b.Where(or), true
}

func (r *ApprovalRepository) Inbox(ctx context.Context, q InboxQuery) ([]dto.InboxItemDTO, uint64, error) {
	var (
		parts []string
		args  []interface{}
	)
	for _, kind := range q.Kinds {
		t, err := tablesFor(kind)
		if err != nil {
			return nil, 0, err
		}
		part, ok := inboxPart(kind, t, q)
		if !ok {
			continue
		}
		sql, partArgs, err := part.ToSql()
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, sql)
		args = append(args, partArgs...)
	}
	if len(parts) == 0 {
		return []dto.InboxItemDTO{}, 0, nil
	}
	union := strings.Join(parts, " UNION ALL ")

	countSQL, err := sq.Dollar.ReplacePlaceholders("SELECT COUNT(*) FROM (" + union + ") inbox")
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета входящих: %w", err)
	}
	if total == 0 {
		return []dto.InboxItemDTO{}, 0, nil
	}

	listSQL := "SELECT * FROM (" + union + ") inbox ORDER BY created_at ASC, entry_id ASC"
	if q.Paginate && q.Limit > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}
	listSQL, err = sq.Dollar.ReplacePlaceholders(listSQL)
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("ApprovalRepository.Inbox", zap.String("query", listSQL))

	rows, err := r.storage.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]dto.InboxItemDTO, 0)
	for rows.Next() {
		var it dto.InboxItemDTO
		if err := rows.Scan(&it.Kind, &it.EntryID, &it.ApprovalID, &it.Stage, &it.StageName, &it.TotalStages,
			&it.EmployeeID, &it.EmployeeCode, &it.EmployeeName, &it.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}
