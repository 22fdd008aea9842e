package contextkeys

type contextKey string

const (
	UserIDKey             contextKey = "UserID"
	RoleIDKey             contextKey = "RoleID"
	EmployeeIDKey         contextKey = "EmployeeID"
	UserPermissionsMapKey contextKey = "userPermissionsMap"
	RequestIDKey          contextKey = "RequestID"
)
