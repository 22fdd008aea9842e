package seeders

import "hr-system/internal/authz"

type roleSeed struct {
	Name        string
	Description string
	Permissions []string
}

var rolesData = []roleSeed{
	{Name: "Super Admin", Description: "Полный доступ к системе", Permissions: []string{authz.Superuser}},
	{Name: "HR", Description: "Отдел кадров", Permissions: []string{
		authz.MasterView, authz.MasterManage,
		authz.EmployeesView, authz.EmployeesManage,
		authz.EntriesCreate, authz.EntriesManage, authz.EntriesViewAll,
		authz.ApprovalsHR,
		authz.RosterView, authz.RosterManage,
		authz.ReportsView,
	}},
	{Name: "Accounts", Description: "Бухгалтерия", Permissions: []string{
		authz.MasterView, authz.EmployeesView,
		authz.EntriesCreate, authz.EntriesViewAll,
		authz.ApprovalsAccounts,
		authz.ReportsView,
	}},
	{Name: "Manager", Description: "Руководитель подразделения", Permissions: []string{
		authz.MasterView, authz.EmployeesView,
		authz.EntriesCreate,
		authz.RosterView,
	}},
	{Name: "Employee", Description: "Сотрудник", Permissions: []string{authz.EntriesCreate}},
}

type leaveTypeSeed struct {
	Code                string
	Name                string
	AnnualQuota         float64
	IsPaid              bool
	AllowHalfDay        bool
	CountNonWorkingDays bool
	IsCompOff           bool
}

var leaveTypesData = []leaveTypeSeed{
	{Code: "CL", Name: "Отпуск по семейным обстоятельствам", AnnualQuota: 12, IsPaid: true, AllowHalfDay: true},
	{Code: "SL", Name: "Больничный", AnnualQuota: 12, IsPaid: true, AllowHalfDay: true},
	{Code: "EL", Name: "Ежегодный оплачиваемый отпуск", AnnualQuota: 15, IsPaid: true},
	{Code: "LOP", Name: "Отпуск без сохранения содержания", IsPaid: false, AllowHalfDay: true},
	{Code: "COMP_OFF", Name: "Отгул за переработку", IsPaid: true, AllowHalfDay: true, IsCompOff: true},
}

var salaryTypesData = []struct {
	Code string
	Name string
}{
	{Code: "MONTHLY", Name: "Оклад"},
	{Code: "DAILY", Name: "Подневная оплата"},
	{Code: "HOURLY", Name: "Почасовая оплата"},
}
