package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot cantidad de un tipo de material en almacén, trazable a su origen.
// AvailableKg nunca es negativo; TotalKg acumula las entradas (IN).
type StockLot struct {
	ID             string
	OrgID          string
	MaterialTypeID string
	BatchID        *string // lote de triagem de origen, nil en entradas manuales
	TotalKg        decimal.Decimal
	AvailableKg    decimal.Decimal
	QualityGrade   *QualityGrade
	OriginNote     string
	MaterialType   *MaterialType
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MovementType tipo de movimiento de estoque.
type MovementType string

// Tipos de movimiento. ADJUST fija el disponible en un valor absoluto.
const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// Valid informa si t es un tipo conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// StockMovement asiento del libro de movimientos (append-only).
type StockMovement struct {
	ID            string
	LotID         string
	Type          MovementType
	QuantityKg    decimal.Decimal
	DestinationID *string
	VehicleID     *string
	InvoiceRef    *string
	Notes         *string
	MovedBy       string
	MovedAt       time.Time
	Lot           *StockLot
	Destination   *Destination
	Vehicle       *Vehicle
}

// StockSummaryRow existencias agregadas por tipo de material.
type StockSummaryRow struct {
	MaterialTypeID string
	MaterialName   string
	AvailableKg    decimal.Decimal
	TotalKg        decimal.Decimal
	LotsCount      int
}
