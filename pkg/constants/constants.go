package constants

//============== CACHE KEYS ==============

const (
	// Формат: auth:permissions:role:<roleID> -> JSON []string
	CacheKeyRolePermissions = "auth:permissions:role:%d"

	// Формат: login_attempts:<login> -> count
	CacheKeyLoginAttempts = "login_attempts:%s"

	// Формат: lockout:<login> -> "locked"
	CacheKeyLoginLockout = "lockout:%s"
)

//============== REQUEST ==============

const (
	HeaderRequestID = "X-Request-ID"

	// DefaultRequestTimeout - секунды на обработку запроса сервисом.
	DefaultRequestTimeout = 30
)
