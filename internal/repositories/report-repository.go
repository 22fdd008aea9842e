package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hr-system/internal/dto"
	"hr-system/pkg/constants"
	"hr-system/pkg/utils"
)

const reportEmployeeJoins = "JOIN employees emp ON emp.id = x.employee_id " +
	"JOIN companies c ON c.id = emp.company_id " +
	"LEFT JOIN sites st ON st.id = emp.site_id"

var reportEmployeeColumns = []string{"emp.id", "emp.code", "emp.full_name", "c.name", "COALESCE(st.name, '')"}

type ReportRepositoryInterface interface {
	Leave(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveReportRow, uint64, error)
	Permission(ctx context.Context, f dto.ReportFilter) ([]dto.PermissionReportRow, uint64, error)
	CompOff(ctx context.Context, f dto.ReportFilter) ([]dto.CompOffReportRow, uint64, error)
	Travel(ctx context.Context, f dto.ReportFilter) ([]dto.TravelReportRow, uint64, error)
	Roster(ctx context.Context, f dto.ReportFilter) ([]dto.RosterReportRow, uint64, error)
	LeaveBalance(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveBalanceReportRow, uint64, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

// progressColumns - число согласованных и всех этапов записи x.
func progressColumns(approvalsTable string) []string {
	return []string{
		fmt.Sprintf("(SELECT COUNT(*) FROM %s a WHERE a.entry_id = x.id AND a.status = '%s')", approvalsTable, constants.StatusApproved),
		fmt.Sprintf("(SELECT COUNT(*) FROM %s a WHERE a.entry_id = x.id)", approvalsTable),
	}
}

// applyReportFilter - фильтры по сотруднику и статусу. Даты задаются отдельно.
func applyReportFilter(b sq.SelectBuilder, f dto.ReportFilter, siteCol string, withStatus bool) sq.SelectBuilder {
	if f.CompanyID != 0 {
		b = b.Where(sq.Eq{"emp.company_id": f.CompanyID})
	}
	if f.SiteID != 0 {
		b = b.Where(sq.Eq{siteCol: f.SiteID})
	}
	if len(f.EmployeeIDs) > 0 {
		b = b.Where(sq.Eq{"emp.id": f.EmployeeIDs})
	}
	if withStatus && f.Status != "" {
		b = b.Where(sq.Eq{"x.status": f.Status})
	}
	return b
}

func applyReportPage(b sq.SelectBuilder, f dto.ReportFilter) sq.SelectBuilder {
	if f.Paginate && f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	return b
}

// runReport считает строки base и выбирает страницу с указанными колонками.
func (r *ReportRepository) runReport(ctx context.Context, base sq.SelectBuilder, columns []string, orderBy string, f dto.ReportFilter, scan func(pgx.Rows) error) (uint64, error) {
	total, err := countRows(ctx, r.storage, base.Columns("COUNT(*)"))
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета строк отчета: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	query, args, err := applyReportPage(base.Columns(columns...).OrderBy(orderBy), f).ToSql()
	if err != nil {
		return 0, err
	}
	r.logger.Debug("ReportRepository", zap.String("query", query))
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, err
		}
	}
	return total, rows.Err()
}

func (r *ReportRepository) Leave(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveReportRow, uint64, error) {
	base := psql.Select().From("leave_entries x").JoinClause(reportEmployeeJoins).Join("leave_types lt ON lt.id = x.leave_type_id")
	base = applyDateRange(applyReportFilter(base, f, "emp.site_id", true), "x.from_date", "x.to_date", f.DateFrom, f.DateTo)

	columns := append(append([]string{}, reportEmployeeColumns...), progressColumns("leave_approvals")...)
	columns = append(columns, "x.id", "lt.name", "x.from_date", "x.to_date", "x.duration_type", "x.days::float8", "x.status")

	list := make([]dto.LeaveReportRow, 0)
	total, err := r.runReport(ctx, base, columns, "x.from_date, emp.code", f, func(rows pgx.Rows) error {
		var row dto.LeaveReportRow
		e, p := &row.ReportEmployee, &row.ApprovalProgress
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName, &p.ApprovedStages, &p.TotalStages,
			&row.EntryID, &row.LeaveTypeName, &row.FromDate, &row.ToDate, &row.DurationType, &row.Days, &row.Status); err != nil {
			return err
		}
		list = append(list, row)
		return nil
	})
	return list, total, err
}

func (r *ReportRepository) Permission(ctx context.Context, f dto.ReportFilter) ([]dto.PermissionReportRow, uint64, error) {
	base := psql.Select().From("permission_entries x").JoinClause(reportEmployeeJoins)
	base = applyDateRange(applyReportFilter(base, f, "emp.site_id", true), "x.permission_date", "x.permission_date", f.DateFrom, f.DateTo)

	columns := append(append([]string{}, reportEmployeeColumns...), progressColumns("permission_approvals")...)
	columns = append(columns, "x.id", "x.permission_date", "to_char(x.from_time, 'HH24:MI')", "to_char(x.to_time, 'HH24:MI')", "x.hours::float8", "x.status")

	list := make([]dto.PermissionReportRow, 0)
	total, err := r.runReport(ctx, base, columns, "x.permission_date, emp.code", f, func(rows pgx.Rows) error {
		var row dto.PermissionReportRow
		e, p := &row.ReportEmployee, &row.ApprovalProgress
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName, &p.ApprovedStages, &p.TotalStages,
			&row.EntryID, &row.Date, &row.FromTime, &row.ToTime, &row.Hours, &row.Status); err != nil {
			return err
		}
		list = append(list, row)
		return nil
	})
	return list, total, err
}

func (r *ReportRepository) CompOff(ctx context.Context, f dto.ReportFilter) ([]dto.CompOffReportRow, uint64, error) {
	base := psql.Select().From("comp_off_entries x").JoinClause(reportEmployeeJoins)
	base = applyDateRange(applyReportFilter(base, f, "emp.site_id", true), "x.worked_date", "x.worked_date", f.DateFrom, f.DateTo)

	columns := append(append([]string{}, reportEmployeeColumns...), progressColumns("hr_comp_off_approvals")...)
	columns = append(columns, "x.id", "x.worked_date", "x.duration", "x.days::float8", "x.status")

	list := make([]dto.CompOffReportRow, 0)
	total, err := r.runReport(ctx, base, columns, "x.worked_date, emp.code", f, func(rows pgx.Rows) error {
		var row dto.CompOffReportRow
		e, p := &row.ReportEmployee, &row.ApprovalProgress
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName, &p.ApprovedStages, &p.TotalStages,
			&row.EntryID, &row.WorkedDate, &row.Duration, &row.Days, &row.Status); err != nil {
			return err
		}
		list = append(list, row)
		return nil
	})
	return list, total, err
}

func (r *ReportRepository) Travel(ctx context.Context, f dto.ReportFilter) ([]dto.TravelReportRow, uint64, error) {
	base := psql.Select().From("travel_claims x").JoinClause(reportEmployeeJoins)
	base = applyDateRange(applyReportFilter(base, f, "emp.site_id", true), "x.from_date", "x.to_date", f.DateFrom, f.DateTo)

	columns := append(append([]string{}, reportEmployeeColumns...), progressColumns("travel_approvals")...)
	columns = append(columns, "x.id", "x.from_date", "x.to_date", "x.from_place", "x.to_place", "x.da_days", "x.total_amount::float8", "x.status")

	list := make([]dto.TravelReportRow, 0)
	total, err := r.runReport(ctx, base, columns, "x.from_date, emp.code", f, func(rows pgx.Rows) error {
		var row dto.TravelReportRow
		e, p := &row.ReportEmployee, &row.ApprovalProgress
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName, &p.ApprovedStages, &p.TotalStages,
			&row.EntryID, &row.FromDate, &row.ToDate, &row.FromPlace, &row.ToPlace, &row.DADays, &row.TotalAmount, &row.Status); err != nil {
			return err
		}
		list = append(list, row)
		return nil
	})
	return list, total, err
}

// Roster - плоский список назначений смен. Площадка фильтруется по графику.
func (r *ReportRepository) Roster(ctx context.Context, f dto.ReportFilter) ([]dto.RosterReportRow, uint64, error) {
	base := psql.Select().From("shift_assignments x").
		JoinClause(reportEmployeeJoins).
		Join("shift_rosters ro ON ro.id = x.roster_id").
		Join("shifts s ON s.id = x.shift_id")
	base = applyDateRange(applyReportFilter(base, f, "ro.site_id", false), "x.work_date", "x.work_date", f.DateFrom, f.DateTo)

	columns := append(append([]string{}, reportEmployeeColumns...),
		"ro.id", "ro.name", "x.work_date", "s.code", "s.name", "to_char(s.start_time, 'HH24:MI')", "to_char(s.end_time, 'HH24:MI')")

	list := make([]dto.RosterReportRow, 0)
	total, err := r.runReport(ctx, base, columns, "x.work_date, emp.code", f, func(rows pgx.Rows) error {
		var row dto.RosterReportRow
		e := &row.ReportEmployee
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName,
			&row.RosterID, &row.RosterName, &row.WorkDate, &row.ShiftCode, &row.ShiftName, &row.StartTime, &row.EndTime); err != nil {
			return err
		}
		list = append(list, row)
		return nil
	})
	return list, total, err
}

// LeaveBalance - остатки по годовым типам отпусков для активных сотрудников за год.
func (r *ReportRepository) LeaveBalance(ctx context.Context, f dto.ReportFilter) ([]dto.LeaveBalanceReportRow, uint64, error) {
	from, to := utils.YearBounds(f.Year)

	filtered := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"emp.is_active": true, "lt.is_comp_off": false})
		return applyReportFilter(b, f, "emp.site_id", false)
	}

	countBuilder := filtered(psql.Select("COUNT(*)").From("employees emp").
		Join("companies c ON c.id = emp.company_id").
		LeftJoin("sites st ON st.id = emp.site_id").
		CrossJoin("leave_types lt"))
	total, err := countRows(ctx, r.storage, countBuilder)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета строк отчета: %w", err)
	}
	if total == 0 {
		return []dto.LeaveBalanceReportRow{}, 0, nil
	}

	builder := filtered(psql.Select(append(append([]string{}, reportEmployeeColumns...),
		"lt.code", "lt.name", "lt.annual_quota::float8",
		fmt.Sprintf("COALESCE(SUM(x.days) FILTER (WHERE x.status = '%s'), 0)::float8", constants.StatusApproved),
		fmt.Sprintf("COALESCE(SUM(x.days) FILTER (WHERE x.status = '%s'), 0)::float8", constants.StatusPending),
	)...).
		From("employees emp").
		Join("companies c ON c.id = emp.company_id").
		LeftJoin("sites st ON st.id = emp.site_id").
		CrossJoin("leave_types lt").
		LeftJoin("leave_entries x ON x.employee_id = emp.id AND x.leave_type_id = lt.id AND x.from_date BETWEEN ? AND ?", from, to)).
		GroupBy("emp.id", "c.name", "st.name", "lt.id").
		OrderBy("emp.code", "lt.code")

	query, args, err := applyReportPage(builder, f).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]dto.LeaveBalanceReportRow, 0)
	for rows.Next() {
		var (
			row   dto.LeaveBalanceReportRow
			quota float64
		)
		e := &row.ReportEmployee
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeCode, &e.EmployeeName, &e.CompanyName, &e.SiteName,
			&row.LeaveTypeCode, &row.LeaveTypeName, &quota, &row.Used, &row.Pending); err != nil {
			return nil, 0, err
		}
		if quota > 0 {
			remaining := utils.Round2(quota - row.Used - row.Pending)
			row.Quota, row.Remaining = &quota, &remaining
		}
		list = append(list, row)
	}
	return list, total, rows.Err()
}
