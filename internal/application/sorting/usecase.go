// Package sorting gestiona la triagem: lotes abiertos sobre ejecuciones concluidas,
// ítems clasificados y el cierre que genera lotes de estoque.
package sorting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	domainstock "github.com/jhoicas/coleta-api/internal/domain/stock"
	"github.com/jhoicas/coleta-api/pkg/logger"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

const closeMovementNote = "Entrada automática da triagem"

var hundred = decimal.NewFromInt(100)

// Deps dependencias del caso de uso.
type Deps struct {
	Tx        TxRunner
	Batches   repository.SortingBatchRepository
	Lots      repository.StockLotRepository
	Materials repository.MaterialTypeRepository
	Publisher ports.EventPublisher
	Metrics   ports.WorkflowMetrics
	Log       *logger.Logger
}

// UseCase triagem.
type UseCase struct {
	tx        TxRunner
	batches   repository.SortingBatchRepository
	lots      repository.StockLotRepository
	materials repository.MaterialTypeRepository
	publisher ports.EventPublisher
	metrics   ports.WorkflowMetrics
	log       *logger.Logger
}

func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:        d.Tx,
		batches:   d.Batches,
		lots:      d.Lots,
		materials: d.Materials,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		log:       d.Log,
	}
	if uc.publisher == nil {
		uc.publisher = ports.NoopPublisher{}
	}
	if uc.metrics == nil {
		uc.metrics = ports.NoopMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Named("sorting")
	return uc
}

// CreateBatch abre un lote de triagem para una ejecución CONCLUIDO. Solo uno abierto por ejecución.
func (uc *UseCase) CreateBatch(ctx context.Context, orgID, userID string, in dto.CreateBatchRequest) (out *dto.BatchResponse, err error) {
	defer func() { uc.metrics.Operation("create_batch", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var batch *entity.SortingBatch
	err = uc.tx.RunSorting(ctx, func(
		runs repository.RunRepository,
		batches repository.SortingBatchRepository,
		_ repository.StockLotRepository,
		_ repository.StockMovementRepository,
	) error {
		run, err := runs.GetForUpdate(ctx, orgID, in.RunID)
		if err != nil {
			return err
		}
		if run == nil {
			return domain.NotFound("Execução não encontrada")
		}
		if run.Status != entity.RunConcluido {
			return domain.Conflict("A execução precisa estar concluída para iniciar a triagem")
		}
		open, err := batches.HasOpen(ctx, run.ID)
		if err != nil {
			return err
		}
		if open {
			return domain.Conflict("Já existe um lote de triagem aberto para esta execução")
		}
		now := time.Now()
		batch = &entity.SortingBatch{
			ID:        uuid.New().String(),
			OrgID:     orgID,
			RunID:     run.ID,
			SortedBy:  userID,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return batches.Create(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("org_id", orgID).Str("batch_id", batch.ID).Str("run_id", batch.RunID).Msg("triagem iniciada")
	return dto.BatchFrom(batch), nil
}

// AddItem agrega un material clasificado al lote abierto.
func (uc *UseCase) AddItem(ctx context.Context, orgID, batchID string, in dto.AddSortedItemRequest) (out *dto.SortedItemResponse, err error) {
	defer func() { uc.metrics.Operation("add_sorted_item", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.WeightKg.IsPositive() {
		return nil, domain.Invalid("Peso deve ser positivo")
	}
	if err := domainstock.CheckScale(in.WeightKg); err != nil {
		return nil, err
	}
	if p := in.ContaminationPct; p != nil && (p.IsNegative() || p.GreaterThan(hundred)) {
		return nil, domain.Invalid("Contaminação deve estar entre 0 e 100")
	}
	grade := entity.GradeB
	if in.QualityGrade != "" {
		grade = entity.QualityGrade(in.QualityGrade)
	}

	var item *entity.SortedItem
	err = uc.tx.RunSorting(ctx, func(
		_ repository.RunRepository,
		batches repository.SortingBatchRepository,
		_ repository.StockLotRepository,
		_ repository.StockMovementRepository,
	) error {
		b, err := batches.GetForUpdate(ctx, orgID, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NotFound("Lote de triagem não encontrado")
		}
		if err := b.RequireOpen(); err != nil {
			return err
		}
		mt, err := uc.materials.GetByID(ctx, orgID, in.MaterialTypeID)
		if err != nil {
			return err
		}
		if mt == nil {
			return domain.NotFound("Tipo de material não encontrado")
		}
		item = &entity.SortedItem{
			ID:                uuid.New().String(),
			BatchID:           b.ID,
			MaterialTypeID:    mt.ID,
			WeightKg:          in.WeightKg,
			QualityGrade:      grade,
			ContaminationPct:  in.ContaminationPct,
			ContaminationNote: in.ContaminationNote,
			MaterialType:      mt,
			CreatedAt:         time.Now(),
		}
		return batches.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return dto.SortedItemFrom(item), nil
}

// RemoveItem quita un ítem del lote abierto.
func (uc *UseCase) RemoveItem(ctx context.Context, orgID, batchID, itemID string) (err error) {
	defer func() { uc.metrics.Operation("remove_sorted_item", err) }()
	if itemID == "" {
		return domain.Invalid("itemId é obrigatório")
	}
	return uc.tx.RunSorting(ctx, func(
		_ repository.RunRepository,
		batches repository.SortingBatchRepository,
		_ repository.StockLotRepository,
		_ repository.StockMovementRepository,
	) error {
		b, err := batches.GetForUpdate(ctx, orgID, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NotFound("Lote de triagem não encontrado")
		}
		if err := b.RequireOpen(); err != nil {
			return err
		}
		it, err := batches.GetItem(ctx, b.ID, itemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("Item não encontrado neste lote")
		}
		return batches.RemoveItem(ctx, b.ID, itemID)
	})
}

// CloseBatch cierra el lote: por cada ítem crea un lote de estoque y su movimiento IN.
// Todo en una transacción; un fallo no deja lotes parciales.
func (uc *UseCase) CloseBatch(ctx context.Context, orgID, userID, batchID string) (out *dto.BatchResponse, err error) {
	defer func() { uc.metrics.Operation("close_batch", err) }()
	var batch *entity.SortingBatch
	err = uc.tx.RunSorting(ctx, func(
		_ repository.RunRepository,
		batches repository.SortingBatchRepository,
		lots repository.StockLotRepository,
		movements repository.StockMovementRepository,
	) error {
		b, err := batches.GetForUpdate(ctx, orgID, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NotFound("Lote de triagem não encontrado")
		}
		if err := b.RequireOpen(); err != nil {
			return err
		}
		items, err := batches.ListItems(ctx, b.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Conflict("Adicione pelo menos um item antes de fechar o lote")
		}

		now := time.Now()
		note := closeMovementNote
		origin := b.OriginNote()
		for _, it := range items {
			grade := it.QualityGrade
			lot := &entity.StockLot{
				ID:             uuid.New().String(),
				OrgID:          orgID,
				MaterialTypeID: it.MaterialTypeID,
				BatchID:        &b.ID,
				TotalKg:        it.WeightKg,
				AvailableKg:    it.WeightKg,
				QualityGrade:   &grade,
				OriginNote:     origin,
				MaterialType:   it.MaterialType,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := lots.Create(ctx, lot); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:         uuid.New().String(),
				LotID:      lot.ID,
				Type:       entity.MovementIn,
				QuantityKg: it.WeightKg,
				Notes:      &note,
				MovedBy:    userID,
				MovedAt:    now,
			}
			if err := movements.Create(ctx, mov); err != nil {
				return err
			}
			b.Lots = append(b.Lots, *lot)
		}
		if err := batches.Close(ctx, b.ID); err != nil {
			return err
		}
		b.IsClosed = true
		b.Items = items
		batch = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Sum(decimal.Zero, lo.Map(batch.Items, func(it entity.SortedItem, _ int) decimal.Decimal { return it.WeightKg })...)
	uc.metrics.StockMoved(entity.MovementIn, total)
	uc.log.Info().Str("org_id", orgID).Str("batch_id", batch.ID).Int("lots", len(batch.Lots)).Str("kg", total.String()).Msg("triagem fechada")
	if err := uc.publisher.Publish(ctx, ports.Event{
		Type:       ports.EventBatchClosed,
		OrgID:      orgID,
		EntityID:   batch.ID,
		ActorID:    userID,
		OccurredAt: time.Now(),
		Payload:    map[string]any{"runId": batch.RunID, "lots": len(batch.Lots), "totalKg": total},
	}); err != nil {
		uc.log.Error().Err(err).Str("batch_id", batch.ID).Msg("falha ao publicar evento")
	}
	return dto.BatchFrom(batch), nil
}

// ListBatches lista lotes; status "open" o "closed" filtra, vacío devuelve todos.
func (uc *UseCase) ListBatches(ctx context.Context, orgID, status string) ([]dto.BatchResponse, error) {
	var closed *bool
	switch status {
	case "":
	case "open":
		closed = lo.ToPtr(false)
	case "closed":
		closed = lo.ToPtr(true)
	default:
		return nil, domain.Invalid("status deve ser um de: open closed")
	}
	list, err := uc.batches.List(ctx, orgID, closed)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(b *entity.SortingBatch, _ int) dto.BatchResponse { return *dto.BatchFrom(b) }), nil
}

// GetBatch detalle con ítems y lotes de estoque generados.
func (uc *UseCase) GetBatch(ctx context.Context, orgID, id string) (*dto.BatchResponse, error) {
	b, err := uc.batches.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NotFound("Lote de triagem não encontrado")
	}
	if b.Items, err = uc.batches.ListItems(ctx, b.ID); err != nil {
		return nil, err
	}
	if b.Lots, err = uc.lots.ListByBatch(ctx, b.ID); err != nil {
		return nil, err
	}
	return dto.BatchFrom(b), nil
}
