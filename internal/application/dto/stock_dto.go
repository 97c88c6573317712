package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest body de POST /stock/lots.
type CreateLotRequest struct {
	MaterialTypeID string          `json:"materialTypeId" validate:"required"`
	TotalKg        decimal.Decimal `json:"totalKg"`
	QualityGrade   *string         `json:"qualityGrade,omitempty" validate:"omitempty,oneof=A B C"`
	OriginNote     *string         `json:"originNote,omitempty"`
}

// RecordMovementRequest body de POST /stock/movements.
type RecordMovementRequest struct {
	LotID         string          `json:"lotId" validate:"required"`
	Type          string          `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	QuantityKg    decimal.Decimal `json:"quantityKg"`
	DestinationID *string         `json:"destinationId,omitempty"`
	VehicleID     *string         `json:"vehicleId,omitempty"`
	InvoiceRef    *string         `json:"invoiceRef,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
}

// LotListQuery filtros de GET /stock/lots.
type LotListQuery struct {
	MaterialTypeID string `query:"materialTypeId"`
	HasStock       bool   `query:"hasStock"`
}

// MovementListQuery filtros de GET /stock/movements.
type MovementListQuery struct {
	LotID string `query:"lotId"`
	Type  string `query:"type" validate:"omitempty,oneof=IN OUT ADJUST"`
	DateRangeQuery
}

// LotResponse lote de estoque.
type LotResponse struct {
	ID             string                `json:"id"`
	MaterialTypeID string                `json:"materialTypeId"`
	BatchID        *string               `json:"batchId,omitempty"`
	TotalKg        decimal.Decimal       `json:"totalKg"`
	AvailableKg    decimal.Decimal       `json:"availableKg"`
	QualityGrade   *string               `json:"qualityGrade,omitempty"`
	OriginNote     string                `json:"originNote"`
	MaterialType   *MaterialTypeResponse `json:"materialType,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// MovementResponse movimiento de estoque.
type MovementResponse struct {
	ID            string               `json:"id"`
	LotID         string               `json:"lotId"`
	Type          string               `json:"type"`
	QuantityKg    decimal.Decimal      `json:"quantityKg"`
	DestinationID *string              `json:"destinationId,omitempty"`
	VehicleID     *string              `json:"vehicleId,omitempty"`
	InvoiceRef    *string              `json:"invoiceRef,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	MovedBy       string               `json:"movedBy"`
	MovedAt       time.Time            `json:"movedAt"`
	Lot           *LotResponse         `json:"lot,omitempty"`
	Destination   *DestinationResponse `json:"destination,omitempty"`
	Vehicle       *VehicleResponse     `json:"vehicle,omitempty"`
}

// StockMaterialSummary existencias de un material.
type StockMaterialSummary struct {
	MaterialTypeID string          `json:"materialTypeId"`
	MaterialName   string          `json:"materialName"`
	AvailableKg    decimal.Decimal `json:"availableKg"`
	TotalKg        decimal.Decimal `json:"totalKg"`
	LotsCount      int             `json:"lotsCount"`
}

// StockTotalsResponse totales de la organización.
type StockTotalsResponse struct {
	AvailableKg decimal.Decimal `json:"availableKg"`
	TotalKg     decimal.Decimal `json:"totalKg"`
	LotsCount   int             `json:"lotsCount"`
}

// StockSummaryResponse salida de GET /stock/summary.
type StockSummaryResponse struct {
	ByMaterial []StockMaterialSummary `json:"byMaterial"`
	Totals     StockTotalsResponse    `json:"totals"`
}
