package stock

import (
	"context"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción: el lote se bloquea (FOR UPDATE) y
// la actualización de cantidades y el asiento del movimiento se confirman juntos.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		lots repository.StockLotRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// Manifest documento de transporte de una salida de material.
type Manifest struct {
	Number   string
	XML      []byte
	Digest   string // SHA-256 hex de la forma canónica
	Movement *entity.StockMovement
}

// ManifestBuilder genera el manifiesto de transporte (MTR) de un movimiento OUT.
type ManifestBuilder interface {
	Build(org *entity.Organization, mov *entity.StockMovement) (*Manifest, error)
}
