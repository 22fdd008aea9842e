package entities

import "time"

type Holiday struct {
	ID        uint64    `json:"id"`
	CompanyID uint64    `json:"company_id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Timestamps
}
