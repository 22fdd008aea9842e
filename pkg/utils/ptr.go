package utils

import "github.com/aarondl/null/v8"

func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

func DiffPtr[T comparable](oldVal, newVal *T) bool {
	if oldVal == nil && newVal == nil {
		return false
	}
	if oldVal == nil || newVal == nil {
		return true
	}
	return *oldVal != *newVal
}

func ToPtr[T any](v T) *T {
	return &v
}

// NullUint64 переводит необязательный ID в null.Int64 для записи в БД.
func NullUint64(v *uint64) null.Int64 {
	if v == nil || *v == 0 {
		return null.Int64{}
	}
	return null.Int64From(int64(*v))
}

// Uint64Ptr - обратное преобразование для вывода в DTO.
func Uint64Ptr(v null.Int64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := uint64(v.Int64)
	return &u
}

// NullStringFromPtr считает пустую строку отсутствием значения.
func NullStringFromPtr(s *string) null.String {
	if s == nil || *s == "" {
		return null.String{}
	}
	return null.StringFrom(*s)
}
