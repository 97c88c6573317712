package entity

import "time"

// Tipos de destino del material que sale del estoque.
const (
	DestinationCooperativa = "COOPERATIVA"
	DestinationAterro      = "ATERRO"
	DestinationIndustria   = "INDUSTRIA"
	DestinationCompostagem = "COMPOSTAGEM"
)

// Destination comprador o destino final del material.
type Destination struct {
	ID        string
	OrgID     string
	Name      string
	Type      string
	Address   *string
	Contact   *string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
