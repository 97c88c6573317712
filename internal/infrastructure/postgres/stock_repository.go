package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var (
	_ repository.StockLotRepository      = (*StockLotRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// StockLotRepo stock_lots (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

var lotCols = []string{
	"id", "org_id", "material_type_id", "batch_id", "total_kg", "available_kg", "quality_grade", "origin_note",
	"created_at", "updated_at",
}

func lotSelect() sq.SelectBuilder {
	return psql.Select(append(prefixed("l", lotCols), prefixed("m", materialTypeCols)...)...).
		From("stock_lots l").
		Join("material_types m ON m.id = l.material_type_id")
}

func scanLotInto(l *entity.StockLot, m *entity.MaterialType, row pgx.Row) error {
	return row.Scan(&l.ID, &l.OrgID, &l.MaterialTypeID, &l.BatchID, &l.TotalKg, &l.AvailableKg, &l.QualityGrade,
		&l.OriginNote, &l.CreatedAt, &l.UpdatedAt,
		&m.ID, &m.OrgID, &m.Name, &m.Category, &m.DefaultUnit, &m.RequiresSorting,
		&m.AllowsContamination, &m.ReferencePrice, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	var m entity.MaterialType
	if err := scanLotInto(&l, &m, row); err != nil {
		return nil, err
	}
	l.MaterialType = &m
	return &l, nil
}

// Create inserta el lote.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	_, err := execute(ctx, r.q, psql.Insert("stock_lots").Columns(lotCols...).Values(
		l.ID, l.OrgID, l.MaterialTypeID, l.BatchID, l.TotalKg, l.AvailableKg, l.QualityGrade, l.OriginNote, l.CreatedAt, l.UpdatedAt,
	))
	return writeErr("insert lot", err, "Lote já cadastrado")
}

// GetByID lote con su material.
func (r *StockLotRepo) GetByID(ctx context.Context, orgID, id string) (*entity.StockLot, error) {
	l, err := getOne(ctx, r.q, lotSelect().Where(sq.Eq{"l.id": id, "l.org_id": orgID}), scanLot)
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// GetForUpdate SELECT ... FOR UPDATE OF l: bloquea solo el lote, no el material.
func (r *StockLotRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.StockLot, error) {
	l, err := getOne(ctx, r.q, lotSelect().Where(sq.Eq{"l.id": id, "l.org_id": orgID}).Suffix("FOR UPDATE OF l"), scanLot)
	if err != nil {
		return nil, fmt.Errorf("lock lot: %w", err)
	}
	return l, nil
}

// UpdateQuantities fija disponible y total. El CHECK available_kg >= 0 se traduce a Insufficient.
func (r *StockLotRepo) UpdateQuantities(ctx context.Context, id string, availableKg, totalKg decimal.Decimal) error {
	n, err := execute(ctx, r.q, psql.Update("stock_lots").
		Set("available_kg", availableKg).
		Set("total_kg", totalKg).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}))
	if err != nil {
		if isCheckViolation(err) {
			return domain.Insufficient("Quantidade insuficiente")
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List más recientes primero.
func (r *StockLotRepo) List(ctx context.Context, orgID string, f repository.LotFilter) ([]*entity.StockLot, error) {
	b := lotSelect().Where(sq.Eq{"l.org_id": orgID})
	if f.MaterialTypeID != "" {
		b = b.Where(sq.Eq{"l.material_type_id": f.MaterialTypeID})
	}
	if f.HasStock {
		b = b.Where(sq.Gt{"l.available_kg": 0})
	}
	list, err := getMany(ctx, r.q, b.OrderBy("l.created_at DESC"), scanLot)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return list, nil
}

// ListByBatch lotes generados por un lote de triagem.
func (r *StockLotRepo) ListByBatch(ctx context.Context, batchID string) ([]entity.StockLot, error) {
	list, err := getValues(ctx, r.q, lotSelect().Where(sq.Eq{"l.batch_id": batchID}).OrderBy("l.created_at", "l.id"), scanLot)
	if err != nil {
		return nil, fmt.Errorf("list lots by batch: %w", err)
	}
	return list, nil
}

// Summary agrupa por material los lotes con disponible > 0.
func (r *StockLotRepo) Summary(ctx context.Context, orgID string) ([]entity.StockSummaryRow, error) {
	b := psql.Select("m.id", "m.name", "COALESCE(SUM(l.available_kg), 0)", "COALESCE(SUM(l.total_kg), 0)", "count(*)").
		From("stock_lots l").
		Join("material_types m ON m.id = l.material_type_id").
		Where(sq.Eq{"l.org_id": orgID}).
		Where(sq.Gt{"l.available_kg": 0}).
		GroupBy("m.id", "m.name").
		OrderBy("m.name")
	list, err := getValues(ctx, r.q, b, func(row pgx.Row) (*entity.StockSummaryRow, error) {
		var s entity.StockSummaryRow
		if err := row.Scan(&s.MaterialTypeID, &s.MaterialName, &s.AvailableKg, &s.TotalKg, &s.LotsCount); err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return list, nil
}

// Totals totales de todos los lotes de la organización.
func (r *StockLotRepo) Totals(ctx context.Context, orgID string) (repository.StockTotals, error) {
	var t repository.StockTotals
	sqlStr, args, err := psql.Select("COALESCE(SUM(available_kg), 0)", "COALESCE(SUM(total_kg), 0)", "count(*)").
		From("stock_lots").
		Where(sq.Eq{"org_id": orgID}).
		ToSql()
	if err != nil {
		return t, err
	}
	if err := r.q.QueryRow(ctx, sqlStr, args...).Scan(&t.AvailableKg, &t.TotalKg, &t.LotsCount); err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}

// StockMovementRepo libro de movimientos (append-only).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

var movementCols = []string{
	"id", "lot_id", "type", "quantity_kg", "destination_id", "vehicle_id", "invoice_ref", "notes", "moved_by", "moved_at",
}

// movementSelect movimiento con lote+material y, opcionales, destino y vehículo.
func movementSelect() sq.SelectBuilder {
	cols := prefixed("mv", movementCols)
	cols = append(cols, prefixed("l", lotCols)...)
	cols = append(cols, prefixed("m", materialTypeCols)...)
	cols = append(cols, prefixed("d", destinationCols)...)
	cols = append(cols, prefixed("v", vehicleCols)...)
	return psql.Select(cols...).
		From("stock_movements mv").
		Join("stock_lots l ON l.id = mv.lot_id").
		Join("material_types m ON m.id = l.material_type_id").
		LeftJoin("destinations d ON d.id = mv.destination_id").
		LeftJoin("vehicles v ON v.id = mv.vehicle_id")
}

// nullable destino/vehículo del LEFT JOIN.
type optDestination struct {
	ID, OrgID, Name, Type   *string
	Address, Contact, Phone *string
	IsActive                *bool
	CreatedAt, UpdatedAt    *time.Time
}

type optVehicle struct {
	ID, OrgID, Plate     *string
	Model                *string
	CapacityKg           *decimal.Decimal
	IsActive             *bool
	CreatedAt, UpdatedAt *time.Time
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var mv entity.StockMovement
	var l entity.StockLot
	var m entity.MaterialType
	var d optDestination
	var v optVehicle
	err := row.Scan(&mv.ID, &mv.LotID, &mv.Type, &mv.QuantityKg, &mv.DestinationID, &mv.VehicleID,
		&mv.InvoiceRef, &mv.Notes, &mv.MovedBy, &mv.MovedAt,
		&l.ID, &l.OrgID, &l.MaterialTypeID, &l.BatchID, &l.TotalKg, &l.AvailableKg, &l.QualityGrade,
		&l.OriginNote, &l.CreatedAt, &l.UpdatedAt,
		&m.ID, &m.OrgID, &m.Name, &m.Category, &m.DefaultUnit, &m.RequiresSorting,
		&m.AllowsContamination, &m.ReferencePrice, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&d.ID, &d.OrgID, &d.Name, &d.Type, &d.Address, &d.Contact, &d.Phone, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&v.ID, &v.OrgID, &v.Plate, &v.Model, &v.CapacityKg, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.MaterialType = &m
	mv.Lot = &l
	if d.ID != nil {
		mv.Destination = &entity.Destination{
			ID: *d.ID, OrgID: *d.OrgID, Name: *d.Name, Type: *d.Type,
			Address: d.Address, Contact: d.Contact, Phone: d.Phone,
			IsActive: *d.IsActive, CreatedAt: *d.CreatedAt, UpdatedAt: *d.UpdatedAt,
		}
	}
	if v.ID != nil {
		mv.Vehicle = &entity.Vehicle{
			ID: *v.ID, OrgID: *v.OrgID, Plate: *v.Plate, Model: v.Model, CapacityKg: v.CapacityKg,
			IsActive: *v.IsActive, CreatedAt: *v.CreatedAt, UpdatedAt: *v.UpdatedAt,
		}
	}
	return &mv, nil
}

// Create agrega un asiento al libro.
func (r *StockMovementRepo) Create(ctx context.Context, mv *entity.StockMovement) error {
	_, err := execute(ctx, r.q, psql.Insert("stock_movements").Columns(movementCols...).Values(
		mv.ID, mv.LotID, mv.Type, mv.QuantityKg, mv.DestinationID, mv.VehicleID, mv.InvoiceRef, mv.Notes, mv.MovedBy, mv.MovedAt,
	))
	return writeErr("insert movement", err, "Movimentação já registrada")
}

// GetByID movimiento de la organización (vía su lote).
func (r *StockMovementRepo) GetByID(ctx context.Context, orgID, id string) (*entity.StockMovement, error) {
	mv, err := getOne(ctx, r.q, movementSelect().Where(sq.Eq{"mv.id": id, "l.org_id": orgID}), scanMovement)
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return mv, nil
}

// List más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, orgID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	b := movementSelect().Where(sq.Eq{"l.org_id": orgID})
	if f.LotID != "" {
		b = b.Where(sq.Eq{"mv.lot_id": f.LotID})
	}
	if f.Type != nil {
		b = b.Where(sq.Eq{"mv.type": *f.Type})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"mv.moved_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"mv.moved_at": *f.To})
	}
	b = b.OrderBy("mv.moved_at DESC", "mv.id DESC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	list, err := getMany(ctx, r.q, b, scanMovement)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}
