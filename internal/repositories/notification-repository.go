package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/entities"
	db "hr-system/internal/infrastructure/bd"
	"hr-system/pkg/types"
)

var notificationFilterMap = map[string]string{
	"is_read":    "is_read",
	"entry_kind": "entry_kind",
	"created_at": "created_at",
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entities.Notification) (uint64, error)
	ListForEmployee(ctx context.Context, employeeID uint64, filter types.Filter) ([]entities.Notification, uint64, error)
	MarkRead(ctx context.Context, id, employeeID uint64) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) (uint64, error) {
	query, args, err := psql.Insert("notifications").
		Columns("employee_id", "title", "message", "entry_kind", "entry_id").
		Values(n.EmployeeID, n.Title, n.Message, n.EntryKind, n.EntryID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapPgError(err, "уведомление")
	}
	return id, nil
}

func (r *NotificationRepository) ListForEmployee(ctx context.Context, employeeID uint64, filter types.Filter) ([]entities.Notification, uint64, error) {
	countBuilder := psql.Select("COUNT(id)").From("notifications").Where(sq.Eq{"employee_id": employeeID})
	total, err := countRows(ctx, r.storage, db.ApplyFilters(countBuilder, filter, notificationFilterMap))
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета уведомлений: %w", err)
	}
	if total == 0 {
		return []entities.Notification{}, 0, nil
	}

	builder := psql.Select("id", "employee_id", "title", "message", "entry_kind", "entry_id", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"employee_id": employeeID})
	query, args, err := db.ApplyListParams(builder, filter, notificationFilterMap, "created_at DESC, id DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Notification, 0, filter.Limit)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Title, &n.Message, &n.EntryKind, &n.EntryID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// MarkRead - чужое уведомление считается ненайденным.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, employeeID uint64) error {
	builder := psql.Update("notifications").Set("is_read", true).Where(sq.Eq{"id": id, "employee_id": employeeID})
	return execAffected(ctx, r.storage, builder, "уведомление")
}
