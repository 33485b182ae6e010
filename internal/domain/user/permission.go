package user

type Resource string

const (
	ResourceEmployees  Resource = "employees"
	ResourceAttendance Resource = "attendance"
	ResourcePayroll    Resource = "payroll"
	ResourceExpenses   Resource = "expenses"
	ResourceReports    Resource = "reports"
	ResourceSettings   Resource = "settings"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

var allActions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport}

// RolePermissions is the default permission matrix loaded into the enforcer.
var RolePermissions = map[Role]map[Resource][]Action{
	RoleAdmin: {
		ResourceEmployees:  allActions,
		ResourceAttendance: allActions,
		ResourcePayroll:    allActions,
		ResourceExpenses:   allActions,
		ResourceReports:    allActions,
		ResourceSettings:   allActions,
	},
	RoleHR: {
		ResourceEmployees:  allActions,
		ResourceAttendance: allActions,
		ResourcePayroll:    {ActionView, ActionCreate, ActionEdit, ActionExport},
		ResourceExpenses:   {ActionView},
		ResourceReports:    {ActionView, ActionExport},
		ResourceSettings:   {ActionView},
	},
	RoleAccountant: {
		ResourceEmployees:  {ActionView},
		ResourceAttendance: {ActionView},
		ResourcePayroll:    allActions,
		ResourceExpenses:   allActions,
		ResourceReports:    {ActionView, ActionExport},
		ResourceSettings:   {ActionView},
	},
	RoleManager: {
		ResourceEmployees:  {ActionView},
		ResourceAttendance: {ActionView, ActionCreate, ActionEdit},
		ResourcePayroll:    {ActionView},
		ResourceExpenses:   {ActionView, ActionCreate},
		ResourceReports:    {ActionView},
		ResourceSettings:   {ActionView},
	},
	RoleEmployee: {
		ResourceAttendance: {ActionView, ActionCreate},
		ResourceSettings:   {ActionView},
	},
}

// Policies flattens RolePermissions into (role, resource, action) rows.
func Policies() [][]string {
	var rows [][]string
	for role, resources := range RolePermissions {
		for resource, actions := range resources {
			for _, action := range actions {
				rows = append(rows, []string{string(role), string(resource), string(action)})
			}
		}
	}
	return rows
}
