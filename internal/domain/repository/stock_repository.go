package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// LotFilter filtros del listado de lotes.
type LotFilter struct {
	MaterialTypeID string
	HasStock       bool // solo available_kg > 0
}

// StockTotals totales de estoque de la organización.
type StockTotals struct {
	AvailableKg decimal.Decimal
	TotalKg     decimal.Decimal
	LotsCount   int
}

// StockLotRepository puerto para lotes de estoque. Usado dentro de transacciones.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, orgID, id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.StockLot, error)
	UpdateQuantities(ctx context.Context, id string, availableKg, totalKg decimal.Decimal) error
	List(ctx context.Context, orgID string, f LotFilter) ([]*entity.StockLot, error)
	ListByBatch(ctx context.Context, batchID string) ([]entity.StockLot, error)
	// Summary existencias por material, solo lotes con disponible > 0.
	Summary(ctx context.Context, orgID string) ([]entity.StockSummaryRow, error)
	Totals(ctx context.Context, orgID string) (StockTotals, error)
}

// MovementFilter filtros del listado de movimientos. From/To sobre moved_at. Limit 0 = sin límite.
type MovementFilter struct {
	LotID string
	Type  *entity.MovementType
	From  *time.Time
	To    *time.Time
	Limit int
}

// StockMovementRepository puerto del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, orgID, id string) (*entity.StockMovement, error)
	// List más recientes primero, con Lot (y MaterialType), Destination y Vehicle.
	List(ctx context.Context, orgID string, f MovementFilter) ([]*entity.StockMovement, error)
}
