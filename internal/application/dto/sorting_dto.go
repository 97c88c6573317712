package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body de POST /sorting-batches.
type CreateBatchRequest struct {
	RunID string  `json:"runId" validate:"required"`
	Notes *string `json:"notes,omitempty"`
}

// AddSortedItemRequest body de POST /sorting-batches/:id/items. QualityGrade por defecto "B".
type AddSortedItemRequest struct {
	MaterialTypeID    string           `json:"materialTypeId" validate:"required"`
	WeightKg          decimal.Decimal  `json:"weightKg"`
	QualityGrade      string           `json:"qualityGrade,omitempty" validate:"omitempty,oneof=A B C"`
	ContaminationPct  *decimal.Decimal `json:"contaminationPct,omitempty"`
	ContaminationNote *string          `json:"contaminationNote,omitempty"`
}

// SortedItemResponse ítem triado.
type SortedItemResponse struct {
	ID                string                `json:"id"`
	MaterialTypeID    string                `json:"materialTypeId"`
	WeightKg          decimal.Decimal       `json:"weightKg"`
	QualityGrade      string                `json:"qualityGrade"`
	ContaminationPct  *decimal.Decimal      `json:"contaminationPct,omitempty"`
	ContaminationNote *string               `json:"contaminationNote,omitempty"`
	MaterialType      *MaterialTypeResponse `json:"materialType,omitempty"`
}

// BatchResponse lote de triagem con ítems y, una vez cerrado, los lotes de estoque generados.
type BatchResponse struct {
	ID        string               `json:"id"`
	RunID     string               `json:"runId"`
	SortedBy  string               `json:"sortedBy"`
	IsClosed  bool                 `json:"isClosed"`
	Notes     *string              `json:"notes,omitempty"`
	Items     []SortedItemResponse `json:"items"`
	StockLots []LotResponse        `json:"stockLots"`
	CreatedAt time.Time            `json:"createdAt"`
}
