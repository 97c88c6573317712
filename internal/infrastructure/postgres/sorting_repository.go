package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

var _ repository.SortingBatchRepository = (*SortingBatchRepo)(nil)

// SortingBatchRepo sorting_batches y sorted_items.
type SortingBatchRepo struct {
	q Querier
}

// NewSortingBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSortingBatchRepository(q Querier) *SortingBatchRepo {
	return &SortingBatchRepo{q: q}
}

var batchCols = []string{"id", "org_id", "run_id", "sorted_by", "is_closed", "notes", "created_at", "updated_at"}

func scanBatch(row pgx.Row) (*entity.SortingBatch, error) {
	var b entity.SortingBatch
	if err := row.Scan(&b.ID, &b.OrgID, &b.RunID, &b.SortedBy, &b.IsClosed, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta el lote; uq_sorting_batches_open impide dos abiertos por ejecución.
func (r *SortingBatchRepo) Create(ctx context.Context, b *entity.SortingBatch) error {
	_, err := execute(ctx, r.q, psql.Insert("sorting_batches").Columns(batchCols...).
		Values(b.ID, b.OrgID, b.RunID, b.SortedBy, b.IsClosed, b.Notes, b.CreatedAt, b.UpdatedAt))
	return writeErr("insert batch", err, "Já existe um lote de triagem aberto para esta execução")
}

func (r *SortingBatchRepo) selectOne(orgID, id string) sq.SelectBuilder {
	return psql.Select(batchCols...).From("sorting_batches").Where(sq.Eq{"id": id, "org_id": orgID})
}

// GetByID lote de la organización (sin ítems).
func (r *SortingBatchRepo) GetByID(ctx context.Context, orgID, id string) (*entity.SortingBatch, error) {
	b, err := getOne(ctx, r.q, r.selectOne(orgID, id), scanBatch)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea el lote.
func (r *SortingBatchRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.SortingBatch, error) {
	b, err := getOne(ctx, r.q, r.selectOne(orgID, id).Suffix("FOR UPDATE"), scanBatch)
	if err != nil {
		return nil, fmt.Errorf("lock batch: %w", err)
	}
	return b, nil
}

// HasOpen hay un lote abierto para la ejecución.
func (r *SortingBatchRepo) HasOpen(ctx context.Context, runID string) (bool, error) {
	n, err := count(ctx, r.q, psql.Select("count(*)").From("sorting_batches").
		Where(sq.Eq{"run_id": runID, "is_closed": false}))
	return n > 0, err
}

// List más recientes primero; closed nil = todos.
func (r *SortingBatchRepo) List(ctx context.Context, orgID string, closed *bool) ([]*entity.SortingBatch, error) {
	b := psql.Select(batchCols...).From("sorting_batches").Where(sq.Eq{"org_id": orgID})
	if closed != nil {
		b = b.Where(sq.Eq{"is_closed": *closed})
	}
	list, err := getMany(ctx, r.q, b.OrderBy("created_at DESC"), scanBatch)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return list, nil
}

// Close marca el lote como cerrado.
func (r *SortingBatchRepo) Close(ctx context.Context, id string) error {
	n, err := execute(ctx, r.q, psql.Update("sorting_batches").
		Set("is_closed", true).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var sortedItemCols = []string{"id", "batch_id", "material_type_id", "weight_kg", "quality_grade", "contamination_pct", "contamination_note", "created_at"}

func sortedItemSelect() sq.SelectBuilder {
	return psql.Select(append(prefixed("i", sortedItemCols), prefixed("m", materialTypeCols)...)...).
		From("sorted_items i").
		Join("material_types m ON m.id = i.material_type_id")
}

func scanSortedItem(row pgx.Row) (*entity.SortedItem, error) {
	var it entity.SortedItem
	var m entity.MaterialType
	err := row.Scan(&it.ID, &it.BatchID, &it.MaterialTypeID, &it.WeightKg, &it.QualityGrade,
		&it.ContaminationPct, &it.ContaminationNote, &it.CreatedAt,
		&m.ID, &m.OrgID, &m.Name, &m.Category, &m.DefaultUnit, &m.RequiresSorting,
		&m.AllowsContamination, &m.ReferencePrice, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.MaterialType = &m
	return &it, nil
}

// AddItem inserta un ítem triado.
func (r *SortingBatchRepo) AddItem(ctx context.Context, it *entity.SortedItem) error {
	_, err := execute(ctx, r.q, psql.Insert("sorted_items").Columns(sortedItemCols...).Values(
		it.ID, it.BatchID, it.MaterialTypeID, it.WeightKg, it.QualityGrade, it.ContaminationPct, it.ContaminationNote, it.CreatedAt,
	))
	return writeErr("insert sorted item", err, "Item repetido")
}

// GetItem ítem del lote.
func (r *SortingBatchRepo) GetItem(ctx context.Context, batchID, itemID string) (*entity.SortedItem, error) {
	it, err := getOne(ctx, r.q, sortedItemSelect().Where(sq.Eq{"i.batch_id": batchID, "i.id": itemID}), scanSortedItem)
	if err != nil {
		return nil, fmt.Errorf("get sorted item: %w", err)
	}
	return it, nil
}

// RemoveItem borra el ítem del lote.
func (r *SortingBatchRepo) RemoveItem(ctx context.Context, batchID, itemID string) error {
	_, err := execute(ctx, r.q, psql.Delete("sorted_items").Where(sq.Eq{"id": itemID, "batch_id": batchID}))
	return writeErr("delete sorted item", err, "")
}

// ListItems ítems en orden de alta.
func (r *SortingBatchRepo) ListItems(ctx context.Context, batchID string) ([]entity.SortedItem, error) {
	list, err := getValues(ctx, r.q, sortedItemSelect().Where(sq.Eq{"i.batch_id": batchID}).OrderBy("i.created_at", "i.id"), scanSortedItem)
	if err != nil {
		return nil, fmt.Errorf("list sorted items: %w", err)
	}
	return list, nil
}
