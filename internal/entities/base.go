package entities

import "time"

// Timestamps - служебные поля, общие для всех таблиц.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
