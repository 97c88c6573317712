package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

type lotRepo struct{ s *Store }

func (r *lotRepo) Create(_ context.Context, lot *entity.StockLot) error {
	defer r.s.lock()()
	if err := r.s.fail("lot.create"); err != nil {
		return err
	}
	v := *lot
	v.MaterialType = nil
	r.s.t.lots[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *lotRepo) load(l entity.StockLot) *entity.StockLot {
	if m, ok := r.s.t.materials[l.MaterialTypeID]; ok {
		l.MaterialType = &m
	}
	return &l
}

func (r *lotRepo) GetByID(_ context.Context, orgID, id string) (*entity.StockLot, error) {
	defer r.s.lock()()
	l, ok := r.s.t.lots[id]
	if !ok || l.OrgID != orgID {
		return nil, nil
	}
	return r.load(l), nil
}

func (r *lotRepo) GetForUpdate(ctx context.Context, orgID, id string) (*entity.StockLot, error) {
	return r.GetByID(ctx, orgID, id)
}

// UpdateQuantities respeta el CHECK available_kg >= 0 de la tabla.
func (r *lotRepo) UpdateQuantities(_ context.Context, id string, availableKg, totalKg decimal.Decimal) error {
	defer r.s.lock()()
	if err := r.s.fail("lot.update"); err != nil {
		return err
	}
	l, ok := r.s.t.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	if availableKg.IsNegative() {
		return domain.Insufficient("Quantidade insuficiente")
	}
	l.AvailableKg, l.TotalKg, l.UpdatedAt = availableKg, totalKg, time.Now()
	r.s.t.lots[id] = l
	return nil
}

func (r *lotRepo) List(_ context.Context, orgID string, f repository.LotFilter) ([]*entity.StockLot, error) {
	defer r.s.lock()()
	var out []*entity.StockLot
	for _, l := range r.s.t.lots {
		if l.OrgID != orgID || (f.MaterialTypeID != "" && l.MaterialTypeID != f.MaterialTypeID) {
			continue
		}
		if f.HasStock && !l.AvailableKg.IsPositive() {
			continue
		}
		out = append(out, r.load(l))
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] > r.s.t.seq[out[j].ID] })
	return out, nil
}

func (r *lotRepo) ListByBatch(_ context.Context, batchID string) ([]entity.StockLot, error) {
	defer r.s.lock()()
	var out []entity.StockLot
	for _, l := range r.s.t.lots {
		if l.BatchID != nil && *l.BatchID == batchID {
			out = append(out, *r.load(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] < r.s.t.seq[out[j].ID] })
	return out, nil
}

func (r *lotRepo) Summary(_ context.Context, orgID string) ([]entity.StockSummaryRow, error) {
	defer r.s.lock()()
	rows := map[string]*entity.StockSummaryRow{}
	for _, l := range r.s.t.lots {
		if l.OrgID != orgID || !l.AvailableKg.IsPositive() {
			continue
		}
		row, ok := rows[l.MaterialTypeID]
		if !ok {
			row = &entity.StockSummaryRow{MaterialTypeID: l.MaterialTypeID, MaterialName: r.s.t.materials[l.MaterialTypeID].Name}
			rows[l.MaterialTypeID] = row
		}
		row.AvailableKg = row.AvailableKg.Add(l.AvailableKg)
		row.TotalKg = row.TotalKg.Add(l.TotalKg)
		row.LotsCount++
	}
	out := make([]entity.StockSummaryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialName < out[j].MaterialName })
	return out, nil
}

func (r *lotRepo) Totals(_ context.Context, orgID string) (repository.StockTotals, error) {
	defer r.s.lock()()
	var t repository.StockTotals
	for _, l := range r.s.t.lots {
		if l.OrgID != orgID {
			continue
		}
		t.AvailableKg = t.AvailableKg.Add(l.AvailableKg)
		t.TotalKg = t.TotalKg.Add(l.TotalKg)
		t.LotsCount++
	}
	return t, nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.s.lock()()
	if err := r.s.fail("movement.create"); err != nil {
		return err
	}
	v := *m
	v.Lot, v.Destination, v.Vehicle = nil, nil, nil
	r.s.t.movements[v.ID] = v
	r.s.track(v.ID)
	return nil
}

func (r *movementRepo) load(m entity.StockMovement) *entity.StockMovement {
	if l, ok := r.s.t.lots[m.LotID]; ok {
		if mt, ok := r.s.t.materials[l.MaterialTypeID]; ok {
			l.MaterialType = &mt
		}
		m.Lot = &l
	}
	if m.DestinationID != nil {
		if d, ok := r.s.t.destinations[*m.DestinationID]; ok {
			m.Destination = &d
		}
	}
	if m.VehicleID != nil {
		if v, ok := r.s.t.vehicles[*m.VehicleID]; ok {
			m.Vehicle = &v
		}
	}
	return &m
}

func (r *movementRepo) orgOf(m entity.StockMovement) string {
	return r.s.t.lots[m.LotID].OrgID
}

func (r *movementRepo) GetByID(_ context.Context, orgID, id string) (*entity.StockMovement, error) {
	defer r.s.lock()()
	m, ok := r.s.t.movements[id]
	if !ok || r.orgOf(m) != orgID {
		return nil, nil
	}
	return r.load(m), nil
}

func (r *movementRepo) List(_ context.Context, orgID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	defer r.s.lock()()
	var out []*entity.StockMovement
	for _, m := range r.s.t.movements {
		if r.orgOf(m) != orgID || !inRange(m.MovedAt, f.From, f.To) {
			continue
		}
		if (f.LotID != "" && m.LotID != f.LotID) || (f.Type != nil && m.Type != *f.Type) {
			continue
		}
		out = append(out, r.load(m))
	}
	sort.Slice(out, func(i, j int) bool { return r.s.t.seq[out[i].ID] > r.s.t.seq[out[j].ID] })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
