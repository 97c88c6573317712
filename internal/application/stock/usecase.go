// Package stock registra entradas, salidas y ajustes sobre los lotes de estoque.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	domainstock "github.com/jhoicas/coleta-api/internal/domain/stock"
	"github.com/jhoicas/coleta-api/pkg/logger"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

const (
	manualOrigin       = "Entrada manual"
	manualMovementNote = "Entrada manual de estoque"
)

// Deps dependencias del caso de uso.
type Deps struct {
	Tx            TxRunner
	Lots          repository.StockLotRepository
	Movements     repository.StockMovementRepository
	Materials     repository.MaterialTypeRepository
	Destinations  repository.DestinationRepository
	Vehicles      repository.VehicleRepository
	Organizations repository.OrganizationRepository
	Manifests     ManifestBuilder
	Publisher     ports.EventPublisher
	Metrics       ports.WorkflowMetrics
	Log           *logger.Logger
}

// UseCase libro de estoque.
type UseCase struct {
	tx            TxRunner
	lots          repository.StockLotRepository
	movements     repository.StockMovementRepository
	materials     repository.MaterialTypeRepository
	destinations  repository.DestinationRepository
	vehicles      repository.VehicleRepository
	organizations repository.OrganizationRepository
	manifests     ManifestBuilder
	publisher     ports.EventPublisher
	metrics       ports.WorkflowMetrics
	log           *logger.Logger
}

func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:            d.Tx,
		lots:          d.Lots,
		movements:     d.Movements,
		materials:     d.Materials,
		destinations:  d.Destinations,
		vehicles:      d.Vehicles,
		organizations: d.Organizations,
		manifests:     d.Manifests,
		publisher:     d.Publisher,
		metrics:       d.Metrics,
		log:           d.Log,
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
	uc.log = uc.log.Named("stock")
	return uc
}

// CreateLot entrada manual: crea el lote con disponible = total y su movimiento IN.
func (uc *UseCase) CreateLot(ctx context.Context, orgID, userID string, in dto.CreateLotRequest) (out *dto.LotResponse, err error) {
	defer func() { uc.metrics.Operation("create_lot", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.TotalKg.IsPositive() {
		return nil, domain.Invalid("Quantidade deve ser positiva")
	}
	if err := domainstock.CheckScale(in.TotalKg); err != nil {
		return nil, err
	}
	mt, err := uc.materials.GetByID(ctx, orgID, in.MaterialTypeID)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, domain.NotFound("Tipo de material não encontrado")
	}

	now := time.Now()
	lot := &entity.StockLot{
		ID:             uuid.New().String(),
		OrgID:          orgID,
		MaterialTypeID: mt.ID,
		TotalKg:        in.TotalKg,
		AvailableKg:    in.TotalKg,
		OriginNote:     lo.FromPtrOr(in.OriginNote, manualOrigin),
		MaterialType:   mt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.QualityGrade != nil {
		g := entity.QualityGrade(*in.QualityGrade)
		lot.QualityGrade = &g
	}
	note := manualMovementNote
	err = uc.tx.RunStock(ctx, func(lots repository.StockLotRepository, movements repository.StockMovementRepository) error {
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.StockMovement{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			Type:       entity.MovementIn,
			QuantityKg: in.TotalKg,
			Notes:      &note,
			MovedBy:    userID,
			MovedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(entity.MovementIn, in.TotalKg)
	uc.log.Info().Str("org_id", orgID).Str("lot_id", lot.ID).Str("kg", in.TotalKg.String()).Msg("lote criado")
	return dto.LotFrom(lot), nil
}

// RecordMovement aplica IN/OUT/ADJUST sobre el lote bloqueado y asienta el movimiento.
// OUT mayor que el disponible falla sin modificar nada.
func (uc *UseCase) RecordMovement(ctx context.Context, orgID, userID string, in dto.RecordMovementRequest) (out *dto.MovementResponse, err error) {
	defer func() { uc.metrics.Operation("record_movement", err) }()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	typ := entity.MovementType(in.Type)
	if err := domainstock.CheckScale(in.QuantityKg); err != nil {
		return nil, err
	}

	lot, err := uc.lots.GetByID(ctx, orgID, in.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.NotFound("Lote não encontrado")
	}
	var dest *entity.Destination
	if id := lo.FromPtr(in.DestinationID); id != "" {
		if dest, err = uc.destinations.GetByID(ctx, orgID, id); err != nil {
			return nil, err
		}
		if dest == nil {
			return nil, domain.NotFound("Destino não encontrado")
		}
	}
	var veh *entity.Vehicle
	if id := lo.FromPtr(in.VehicleID); id != "" {
		if veh, err = uc.vehicles.GetByID(ctx, orgID, id); err != nil {
			return nil, err
		}
		if veh == nil {
			return nil, domain.NotFound("Veículo não encontrado")
		}
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		LotID:         lot.ID,
		Type:          typ,
		QuantityKg:    in.QuantityKg,
		DestinationID: lo.EmptyableToPtr(lo.FromPtr(in.DestinationID)),
		VehicleID:     lo.EmptyableToPtr(lo.FromPtr(in.VehicleID)),
		InvoiceRef:    in.InvoiceRef,
		Notes:         in.Notes,
		MovedBy:       userID,
		Destination:   dest,
		Vehicle:       veh,
	}
	err = uc.tx.RunStock(ctx, func(lots repository.StockLotRepository, movements repository.StockMovementRepository) error {
		l, err := lots.GetForUpdate(ctx, orgID, lot.ID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.NotFound("Lote não encontrado")
		}
		avail, total, err := domainstock.Apply(l.AvailableKg, l.TotalKg, typ, in.QuantityKg)
		if err != nil {
			return err
		}
		if err := lots.UpdateQuantities(ctx, l.ID, avail, total); err != nil {
			return err
		}
		l.AvailableKg, l.TotalKg = avail, total
		mov.Lot = l
		mov.MovedAt = time.Now()
		return movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.StockMoved(typ, in.QuantityKg)
	uc.log.Info().Str("org_id", orgID).Str("lot_id", lot.ID).Str("type", string(typ)).
		Str("kg", in.QuantityKg.String()).Str("available_kg", mov.Lot.AvailableKg.String()).
		Msg("movimentação registrada")
	if err := uc.publisher.Publish(ctx, ports.Event{
		Type:       ports.EventMovementRecorded,
		OrgID:      orgID,
		EntityID:   mov.ID,
		ActorID:    userID,
		OccurredAt: mov.MovedAt,
		Payload: map[string]any{
			"lotId":       mov.LotID,
			"type":        mov.Type,
			"quantityKg":  mov.QuantityKg,
			"availableKg": mov.Lot.AvailableKg,
		},
	}); err != nil {
		uc.log.Error().Err(err).Str("movement_id", mov.ID).Msg("falha ao publicar evento")
	}
	return dto.MovementFrom(mov), nil
}

// ListLots lotes con su material.
func (uc *UseCase) ListLots(ctx context.Context, orgID string, q dto.LotListQuery) ([]dto.LotResponse, error) {
	list, err := uc.lots.List(ctx, orgID, repository.LotFilter{MaterialTypeID: q.MaterialTypeID, HasStock: q.HasStock})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(l *entity.StockLot, _ int) dto.LotResponse { return *dto.LotFrom(l) }), nil
}

// ListMovements movimientos más recientes primero.
func (uc *UseCase) ListMovements(ctx context.Context, orgID string, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	from, to, err := q.Bounds()
	if err != nil {
		return nil, err
	}
	f := repository.MovementFilter{LotID: q.LotID, From: from, To: to}
	if q.Type != "" {
		f.Type = lo.ToPtr(entity.MovementType(q.Type))
	}
	list, err := uc.movements.List(ctx, orgID, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(m *entity.StockMovement, _ int) dto.MovementResponse { return *dto.MovementFrom(m) }), nil
}

// Summary existencias por material y totales de la organización.
func (uc *UseCase) Summary(ctx context.Context, orgID string) (*dto.StockSummaryResponse, error) {
	rows, err := uc.lots.Summary(ctx, orgID)
	if err != nil {
		return nil, err
	}
	totals, err := uc.lots.Totals(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &dto.StockSummaryResponse{
		ByMaterial: lo.Map(rows, func(r entity.StockSummaryRow, _ int) dto.StockMaterialSummary {
			return dto.StockMaterialSummary{
				MaterialTypeID: r.MaterialTypeID,
				MaterialName:   r.MaterialName,
				AvailableKg:    r.AvailableKg,
				TotalKg:        r.TotalKg,
				LotsCount:      r.LotsCount,
			}
		}),
		Totals: dto.StockTotalsResponse{
			AvailableKg: totals.AvailableKg,
			TotalKg:     totals.TotalKg,
			LotsCount:   totals.LotsCount,
		},
	}, nil
}

// BuildManifest genera el MTR de una salida (OUT) con destino.
func (uc *UseCase) BuildManifest(ctx context.Context, orgID, movementID string) (*Manifest, error) {
	if uc.manifests == nil {
		return nil, domain.Conflict("Geração de manifesto não configurada")
	}
	mov, err := uc.movements.GetByID(ctx, orgID, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.NotFound("Movimentação não encontrada")
	}
	if mov.Type != entity.MovementOut || mov.DestinationID == nil {
		return nil, domain.Conflict("Manifesto disponível apenas para saídas com destino")
	}
	org, err := uc.organizations.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NotFound("Organização não encontrada")
	}
	return uc.manifests.Build(org, mov)
}
