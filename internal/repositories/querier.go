package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "hr-system/pkg/errors"
)

// Querier - общее у *pgxpool.Pool и pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pick возвращает транзакцию, если она передана, иначе пул.
func pick(pool Querier, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return pool
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapPgError переводит ошибки ограничений PostgreSQL в ошибки приложения.
func mapPgError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s (%s): %w", entity, pgErr.ConstraintName, apperrors.ErrConflict)
	case pgForeignKeyViolation:
		return apperrors.NewHttpError(http.StatusBadRequest,
			fmt.Sprintf("%s: связанная запись не найдена или используется", entity), nil,
			map[string]interface{}{"constraint": pgErr.ConstraintName})
	case pgCheckViolation:
		return apperrors.NewHttpError(http.StatusBadRequest,
			fmt.Sprintf("%s: нарушено ограничение %s", entity, pgErr.ConstraintName), nil, nil)
	}
	return err
}

// execAffected выполняет запрос и возвращает ErrNotFound, если не затронута ни одна строка.
func execAffected(ctx context.Context, q Querier, builder sq.Sqlizer, entity string) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// countRows выполняет SELECT COUNT(...) собранный билдером.
func countRows(ctx context.Context, q Querier, builder sq.SelectBuilder) (uint64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
