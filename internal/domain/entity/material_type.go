package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialType tipo de material reciclable (PET, papelão, alumínio...).
type MaterialType struct {
	ID                  string
	OrgID               string
	Name                string
	Category            *string
	DefaultUnit         string // "kg" por defecto
	RequiresSorting     bool
	AllowsContamination bool
	ReferencePrice      *decimal.Decimal
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
