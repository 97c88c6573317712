package entity

import "time"

// Tipos de punto de recolección.
const (
	PointTypeResidencia = "residencia"
	PointTypeComercio   = "comercio"
	PointTypeCondominio = "condominio"
	PointTypeEcoponto   = "ecoponto"
)

// CollectionPoint dirección física donde se recoge material.
type CollectionPoint struct {
	ID        string
	OrgID     string
	Name      string
	Address   string
	Lat       *float64
	Lng       *float64
	Type      *string
	Contact   *string
	Phone     *string
	Notes     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
