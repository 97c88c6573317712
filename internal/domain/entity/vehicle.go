package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle vehículo de recolección.
type Vehicle struct {
	ID         string
	OrgID      string
	Plate      string
	Model      *string
	CapacityKg *decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
