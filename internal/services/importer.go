package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RowError - ошибка одной строки файла. Row - номер строки в Excel.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport - итог загрузки файла.
type ImportReport struct {
	BatchID string     `json:"batch_id"`
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

func (r *ImportReport) fail(row int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, RowError{Row: row, Message: fmt.Sprintf(format, args...)})
}

var employeeColumns = []string{"code", "name", "email", "phone", "company code", "site code", "shift code", "salary type code", "manager code", "date of joining"}

var holidayColumns = []string{"company code", "date", "name"}

// ImportService загружает сотрудников и праздники из xlsx.
type ImportService struct {
	employees     EmployeeServiceInterface
	employeeRepo  repositories.EmployeeRepositoryInterface
	companyRepo   repositories.CompanyRepositoryInterface
	shiftRepo     repositories.ShiftRepositoryInterface
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface
	holidayRepo   repositories.HolidayRepositoryInterface
	logger        *zap.Logger
}

func NewImportService(
	employees EmployeeServiceInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	shiftRepo repositories.ShiftRepositoryInterface,
	leaveTypeRepo repositories.LeaveTypeRepositoryInterface,
	holidayRepo repositories.HolidayRepositoryInterface,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		employees:     employees,
		employeeRepo:  employeeRepo,
		companyRepo:   companyRepo,
		shiftRepo:     shiftRepo,
		leaveTypeRepo: leaveTypeRepo,
		holidayRepo:   holidayRepo,
		logger:        logger,
	}
}

// sheetTable - строки листа после найденной шапки и индексы колонок.
type sheetTable struct {
	sheet     string
	headerRow int
	rows      [][]string
	index     map[string]int
}

func (t sheetTable) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// findTable ищет первый лист, в одной из строк которого есть все нужные колонки.
func findTable(f *excelize.File, columns []string) (sheetTable, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return sheetTable{}, fmt.Errorf("лист %s: %w", sheet, err)
		}
		for rIdx, row := range rows {
			index := make(map[string]int, len(row))
			for cIdx, cell := range row {
				index[strings.ToLower(strings.TrimSpace(cell))] = cIdx
			}
			complete := true
			for _, col := range columns {
				if _, ok := index[col]; !ok {
					complete = false
					break
				}
			}
			if complete {
				return sheetTable{sheet: sheet, headerRow: rIdx, rows: rows, index: index}, nil
			}
		}
	}
	return sheetTable{}, fmt.Errorf("не найдена шапка таблицы с колонками: %s", strings.Join(columns, ", "))
}

var importDateLayouts = []string{"2006-01-02", "02.01.2006", "01-02-06", "1/2/2006", "1/2/06"}

// parseSheetDate понимает ISO, дд.мм.гггг, форматы Excel по умолчанию и серийный номер дня.
func parseSheetDate(raw string) (time.Time, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return utils.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("неверная дата '%s'", raw)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *ImportService) open(path string, columns []string) (sheetTable, func() error, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return sheetTable{}, nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	table, err := findTable(f, columns)
	if err != nil {
		f.Close()
		return sheetTable{}, nil, err
	}
	return table, f.Close, nil
}

type pendingManager struct {
	line        int
	employee    entities.Employee
	managerCode string
}

// ImportEmployees создаёт или обновляет сотрудников по коду. Руководители, описанные
// ниже по файлу, подставляются вторым проходом.
func (s *ImportService) ImportEmployees(ctx context.Context, path string) (*ImportReport, error) {
	table, closeFile, err := s.open(path, employeeColumns)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	report := &ImportReport{BatchID: uuid.NewString(), Errors: []RowError{}}
	log := s.logger.With(zap.String("batch", report.BatchID), zap.String("file", path), zap.String("sheet", table.sheet))
	log.Info("Импорт сотрудников начат")

	var deferred []pendingManager
	for i := table.headerRow + 1; i < len(table.rows); i++ {
		row := table.rows[i]
		line := i + 1
		if isBlank(row) {
			continue
		}
		e, managerCode, err := s.employeeFromRow(ctx, table, row)
		if err != nil {
			report.fail(line, "%v", err)
			continue
		}
		if managerCode != "" {
			manager, err := s.employeeRepo.FindByCode(ctx, nil, managerCode)
			if err != nil && !isNotFound(err) {
				report.fail(line, "%v", err)
				continue
			}
			if manager != nil {
				e.ReportingManagerID = null.Int64From(int64(manager.ID))
			} else {
				deferred = append(deferred, pendingManager{line: line, employee: *e, managerCode: managerCode})
			}
		}
		s.upsert(ctx, report, line, e)
	}

	for _, p := range deferred {
		manager, err := s.employeeRepo.FindByCode(ctx, nil, p.managerCode)
		if err != nil {
			report.fail(p.line, "руководитель %s не найден", p.managerCode)
			continue
		}
		e := p.employee
		e.ReportingManagerID = null.Int64From(int64(manager.ID))
		if _, err := s.employees.UpsertByCode(ctx, &e); err != nil {
			report.fail(p.line, "руководитель %s: %v", p.managerCode, err)
		}
	}

	log.Info("Импорт сотрудников завершён",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (s *ImportService) upsert(ctx context.Context, report *ImportReport, line int, e *entities.Employee) {
	created, err := s.employees.UpsertByCode(ctx, e)
	switch {
	case err != nil:
		report.fail(line, "%s: %v", e.Code, err)
	case created:
		report.Created++
	default:
		report.Updated++
	}
}

func (s *ImportService) employeeFromRow(ctx context.Context, table sheetTable, row []string) (*entities.Employee, string, error) {
	e := &entities.Employee{
		Code:     table.get(row, "code"),
		FullName: table.get(row, "name"),
	}
	if e.Code == "" || e.FullName == "" {
		return nil, "", fmt.Errorf("пустой код или имя")
	}
	if v := table.get(row, "email"); v != "" {
		e.Email = null.StringFrom(v)
	}
	if v := table.get(row, "phone"); v != "" {
		e.Phone = null.StringFrom(v)
	}

	companyCode := table.get(row, "company code")
	company, err := s.companyRepo.FindCompanyByCode(ctx, companyCode)
	if err != nil {
		return nil, "", fmt.Errorf("компания '%s' не найдена", companyCode)
	}
	e.CompanyID = company.ID

	if code := table.get(row, "site code"); code != "" {
		site, err := s.companyRepo.FindSiteByCode(ctx, company.ID, code)
		if err != nil {
			return nil, "", fmt.Errorf("площадка '%s' не найдена в компании %s", code, company.Code)
		}
		e.SiteID = null.Int64From(int64(site.ID))
	}
	if code := table.get(row, "shift code"); code != "" {
		shift, err := s.shiftRepo.FindByCode(ctx, code)
		if err != nil {
			return nil, "", fmt.Errorf("смена '%s' не найдена", code)
		}
		e.ShiftID = null.Int64From(int64(shift.ID))
	}
	if code := table.get(row, "salary type code"); code != "" {
		st, err := s.leaveTypeRepo.FindSalaryTypeByCode(ctx, code)
		if err != nil {
			return nil, "", fmt.Errorf("тип оплаты '%s' не найден", code)
		}
		e.SalaryTypeID = null.Int64From(int64(st.ID))
	}

	joined, err := parseSheetDate(table.get(row, "date of joining"))
	if err != nil {
		return nil, "", err
	}
	e.DateOfJoining = joined

	managerCode := table.get(row, "manager code")
	if strings.EqualFold(managerCode, e.Code) {
		return nil, "", fmt.Errorf("сотрудник не может быть руководителем самому себе")
	}
	return e, managerCode, nil
}

// ImportHolidays: одна дата компании - один праздник, повторная загрузка обновляет название.
func (s *ImportService) ImportHolidays(ctx context.Context, path string) (*ImportReport, error) {
	table, closeFile, err := s.open(path, holidayColumns)
	if err != nil {
		return nil, err
	}
	defer closeFile()

	report := &ImportReport{BatchID: uuid.NewString(), Errors: []RowError{}}
	log := s.logger.With(zap.String("batch", report.BatchID), zap.String("file", path), zap.String("sheet", table.sheet))
	log.Info("Импорт праздников начат")

	companies := make(map[string]uint64)
	for i := table.headerRow + 1; i < len(table.rows); i++ {
		row := table.rows[i]
		line := i + 1
		if isBlank(row) {
			continue
		}
		code := table.get(row, "company code")
		companyID, ok := companies[code]
		if !ok {
			company, err := s.companyRepo.FindCompanyByCode(ctx, code)
			if err != nil {
				report.fail(line, "компания '%s' не найдена", code)
				continue
			}
			companyID = company.ID
			companies[code] = companyID
		}
		date, err := parseSheetDate(table.get(row, "date"))
		if err != nil {
			report.fail(line, "%v", err)
			continue
		}
		name := table.get(row, "name")
		if name == "" {
			report.fail(line, "пустое название праздника")
			continue
		}
		if err := s.holidayRepo.Upsert(ctx, nil, &entities.Holiday{CompanyID: companyID, Date: date, Name: name}); err != nil {
			report.fail(line, "%v", err)
			continue
		}
		report.Created++
	}

	log.Info("Импорт праздников завершён", zap.Int("imported", report.Created), zap.Int("errors", len(report.Errors)))
	return report, nil
}
