package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Role struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	Timestamps
}

type Permission struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}
