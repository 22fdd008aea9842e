package entities

import "github.com/aarondl/null/v8"

type Company struct {
	ID       uint64      `json:"id"`
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Address  null.String `json:"address"`
	IsActive bool        `json:"is_active"`
	Timestamps
}

type Site struct {
	ID        uint64      `json:"id"`
	CompanyID uint64      `json:"company_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Address   null.String `json:"address"`
	IsActive  bool        `json:"is_active"`
	Timestamps
}
