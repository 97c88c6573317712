package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

type batchRepo struct{ s *Store }

// Create respeta el índice único parcial: un solo lote abierto por ejecución.
func (r *batchRepo) Create(_ context.Context, b *entity.SortingBatch) error {
	defer r.s.lock()()
	if err := r.s.fail("batch.create"); err != nil {
		return err
	}
	for _, other := range r.s.t.batches {
		if other.RunID == b.RunID && !other.IsClosed && !b.IsClosed {
			return domain.Conflict("Registro duplicado")
		}
	}
	v := *b
	v.Items, v.Lots = nil, nil
	r.s.t.batches[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, orgID, id string) (*entity.SortingBatch, error) {
	defer r.s.lock()()
	b, ok := r.s.t.batches[id]
	if !ok || b.OrgID != orgID {
		return nil, nil
	}
	return &b, nil
}

func (r *batchRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.SortingBatch, error) {
	return r.GetByID(ctx, orgID, id)
}

func (r *batchRepo) HasOpen(_ context.Context, runID string) (bool, error) {
	defer r.s.lock()()
	for _, b := range r.s.t.batches {
		if b.RunID == runID && !b.IsClosed {
			return true, nil
		}
	}
	return false, nil
}

func (r *batchRepo) List(_ context.Context, orgID string, closed *bool) ([]*entity.SortingBatch, error) {
	defer r.s.lock()()
	var out []*entity.SortingBatch
	for _, b := range r.s.t.batches {
		if b.OrgID != orgID || (closed != nil && b.IsClosed != *closed) {
			continue
		}
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] > r.s.t.seq[out[j].ID] })
	return out, nil
}

func (r *batchRepo) Close(_ context.Context, id string) error {
	defer r.s.lock()()
	if err := r.s.fail("batch.close"); err != nil {
		return err
	}
	b, ok := r.s.t.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.IsClosed = true
	r.s.t.batches[id] = b
	return nil
}

func (r *batchRepo) AddItem(_ context.Context, item *entity.SortedItem) error {
	defer r.s.lock()()
	if err := r.s.fail("sorted.insert"); err != nil {
		return err
	}
	v := *item
	v.MaterialType = nil
	r.s.t.sorted[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *batchRepo) GetItem(_ context.Context, batchID, itemID string) (*entity.SortedItem, error) {
	defer r.s.lock()()
	it, ok := r.s.t.sorted[itemID]
	if !ok || it.BatchID != batchID {
		return nil, nil
	}
	return &it, nil
}

func (r *batchRepo) RemoveItem(_ context.Context, batchID, itemID string) error {
	defer r.s.lock()()
	if it, ok := r.s.t.sorted[itemID]; ok && it.BatchID == batchID {
		delete(r.s.t.sorted, itemID)
	}
	return nil
}

func (r *batchRepo) ListItems(_ context.Context, batchID string) ([]entity.SortedItem, error) {
	defer r.s.lock()()
	var out []entity.SortedItem
	for _, it := range r.s.t.sorted {
		if it.BatchID != batchID {
			continue
		}
		if m, ok := r.s.t.materials[it.MaterialTypeID]; ok {
			it.MaterialType = &m
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] < r.s.t.seq[out[j].ID] })
	return out, nil
}
