package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain"
)

// QualityGrade clasificación de calidad del material triado.
type QualityGrade string

// Grados A (mejor) a C.
const (
	GradeA QualityGrade = "A"
	GradeB QualityGrade = "B"
	GradeC QualityGrade = "C"
)

// Valid informa si g es un grado conocido.
func (g QualityGrade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC:
		return true
	}
	return false
}

// SortingBatch triagem del material de una ejecución concluida. Inmutable una vez cerrado.
type SortingBatch struct {
	ID        string
	OrgID     string
	RunID     string
	SortedBy  string
	IsClosed  bool
	Notes     *string
	Items     []SortedItem
	Lots      []StockLot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequireOpen error de regla de negocio si el lote ya fue cerrado.
func (b *SortingBatch) RequireOpen() error {
	if b.IsClosed {
		return domain.Conflict("Este lote já foi fechado")
	}
	return nil
}

// OriginNote texto de origen para los lotes de estoque generados al cerrar.
func (b *SortingBatch) OriginNote() string {
	id := b.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "Triagem #" + id
}

// SortedItem material clasificado dentro de un lote de triagem.
type SortedItem struct {
	ID                string
	BatchID           string
	MaterialTypeID    string
	WeightKg          decimal.Decimal
	QualityGrade      QualityGrade
	ContaminationPct  *decimal.Decimal
	ContaminationNote *string
	MaterialType      *MaterialType
	CreatedAt         time.Time
}
