package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrAccountLocked      = fmt.Errorf("учётная запись временно заблокирована")
	ErrAccountDisabled    = fmt.Errorf("учётная запись отключена")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrNoEmployeeProfile  = fmt.Errorf("пользователь не привязан к сотруднику")

	// Контекст
	ErrUserNotFound = fmt.Errorf("пользователь не найден")

	// Общие
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrConflict       = fmt.Errorf("запись уже существует")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
)

// statusBySentinel используется utils.ErrorResponse для сопоставления ошибок и HTTP-кодов.
var statusBySentinel = map[error]int{
	ErrInvalidSigningMethod: http.StatusUnauthorized,
	ErrInvalidToken:         http.StatusUnauthorized,
	ErrTokenExpired:         http.StatusUnauthorized,
	ErrTokenNotYetValid:     http.StatusUnauthorized,
	ErrTokenIsNotRefresh:    http.StatusUnauthorized,
	ErrTokenIsNotAccess:     http.StatusUnauthorized,
	ErrEmptyAuthHeader:      http.StatusUnauthorized,
	ErrInvalidAuthHeader:    http.StatusUnauthorized,
	ErrInvalidCredentials:   http.StatusUnauthorized,
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrAccountLocked:        http.StatusTooManyRequests,
	ErrAccountDisabled:      http.StatusForbidden,
	ErrForbidden:            http.StatusForbidden,
	ErrNoEmployeeProfile:    http.StatusForbidden,
	ErrUserNotFound:         http.StatusNotFound,
	ErrNotFound:             http.StatusNotFound,
	ErrBadRequest:           http.StatusBadRequest,
	ErrConflict:             http.StatusConflict,
	ErrInternalServer:       http.StatusInternalServerError,
}

// StatusOf возвращает HTTP-код и сентинел, если err оборачивает известную ошибку.
func StatusOf(err error) (int, error, bool) {
	for sentinel, code := range statusBySentinel {
		if stderrors.Is(err, sentinel) {
			return code, sentinel, true
		}
	}
	return 0, nil, false
}

// HttpError - ошибка бизнес-правила с сообщением для клиента.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

// NewBadRequest - короткая форма для 400 без исходной ошибки.
func NewBadRequest(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// WithDetails прикладывает тело ответа (например, список конфликтов).
func (e *HttpError) WithDetails(details interface{}) *HttpError {
	e.Details = details
	return e
}

func NewForbidden(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}
