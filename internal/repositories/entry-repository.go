package repositories

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"hr-system/internal/authz"
	"hr-system/pkg/types"
)

// EntryListParams - параметры списков заявок.
type EntryListParams struct {
	Filter   types.Filter
	Scope    authz.EntryScope
	DateFrom *time.Time
	DateTo   *time.Time
}

// applyEntryScope ограничивает выборку записями, которые пользователь вправе видеть.
// Запрос должен содержать join employees emp.
func applyEntryScope(b sq.SelectBuilder, scope authz.EntryScope, alias string) sq.SelectBuilder {
	if scope.All {
		return b
	}
	or := sq.Or{}
	if scope.EmployeeID != 0 {
		or = append(or, sq.Eq{alias + ".employee_id": scope.EmployeeID})
	}
	if scope.ManagerID != 0 {
		or = append(or, sq.Eq{"emp.reporting_manager_id": scope.ManagerID})
	}
	if scope.CreatedByID != 0 {
		or = append(or, sq.Eq{alias + ".created_by": scope.CreatedByID})
	}
	if len(or) == 0 {
		return b.Where("1 = 0")
	}
	return b.Where(or)
}

// applyDateRange - записи, пересекающие [from, to].
func applyDateRange(b sq.SelectBuilder, fromCol, toCol string, from, to *time.Time) sq.SelectBuilder {
	if from != nil {
		b = b.Where(sq.GtOrEq{toCol: *from})
	}
	if to != nil {
		b = b.Where(sq.LtOrEq{fromCol: *to})
	}
	return b
}
