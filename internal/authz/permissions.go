package authz

// --- СПИСОК ВСЕХ ПРИВИЛЕГИЙ В СИСТЕМЕ ---

const (
	// Глобальные
	Superuser = "superuser"

	// Справочники (компании, площадки, смены, типы отпусков, праздники)
	MasterView   = "master:view"
	MasterManage = "master:manage"

	// Сотрудники
	EmployeesView   = "employees:view"
	EmployeesManage = "employees:manage"

	// Заявки сотрудников (отпуск, отгул, увольнительная, выезды, командировки)
	EntriesCreate  = "entries:create"
	EntriesManage  = "entries:manage"
	EntriesViewAll = "entries:view:all"

	// Согласование
	ApprovalsHR       = "approvals:hr"
	ApprovalsAccounts = "approvals:accounts"
	ApprovalsOverride = "approvals:override"

	// Графики смен
	RosterView   = "roster:view"
	RosterManage = "roster:manage"

	// Отчёты
	ReportsView = "reports:view"

	// Пользователи и роли
	UsersManage = "users:manage"
)

// All - полный список для сидера.
var All = map[string]string{
	Superuser:         "Полный доступ",
	MasterView:        "Просмотр справочников",
	MasterManage:      "Управление справочниками",
	EmployeesView:     "Просмотр сотрудников",
	EmployeesManage:   "Управление сотрудниками",
	EntriesCreate:     "Подача своих заявок",
	EntriesManage:     "Заявки за любого сотрудника",
	EntriesViewAll:    "Просмотр всех заявок",
	ApprovalsHR:       "Согласование от HR",
	ApprovalsAccounts: "Согласование от бухгалтерии",
	ApprovalsOverride: "Согласование любого этапа",
	RosterView:        "Просмотр графиков смен",
	RosterManage:      "Управление графиками смен",
	ReportsView:       "Просмотр отчётов",
	UsersManage:       "Управление пользователями и ролями",
}
