package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialTypeRequest alta/edición de tipo de material. En edición los nil no se modifican.
type MaterialTypeRequest struct {
	Name                string           `json:"name" validate:"required,notblank"`
	Category            *string          `json:"category,omitempty"`
	DefaultUnit         string           `json:"defaultUnit,omitempty"`
	RequiresSorting     *bool            `json:"requiresSorting,omitempty"`
	AllowsContamination *bool            `json:"allowsContamination,omitempty"`
	ReferencePrice      *decimal.Decimal `json:"referencePrice,omitempty"`
}

// MaterialTypeResponse tipo de material.
type MaterialTypeResponse struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Category            *string          `json:"category,omitempty"`
	DefaultUnit         string           `json:"defaultUnit"`
	RequiresSorting     bool             `json:"requiresSorting"`
	AllowsContamination bool             `json:"allowsContamination"`
	ReferencePrice      *decimal.Decimal `json:"referencePrice,omitempty"`
	IsActive            bool             `json:"isActive"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// CollectionPointRequest alta/edición de punto de coleta.
type CollectionPointRequest struct {
	Name    string   `json:"name" validate:"required,notblank"`
	Address string   `json:"address" validate:"required,notblank"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	Type    *string  `json:"type,omitempty" validate:"omitempty,oneof=residencia comercio condominio ecoponto"`
	Contact *string  `json:"contact,omitempty"`
	Phone   *string  `json:"phone,omitempty"`
	Notes   *string  `json:"notes,omitempty"`
}

// CollectionPointResponse punto de coleta.
type CollectionPointResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Type      *string   `json:"type,omitempty"`
	Contact   *string   `json:"contact,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleRequest alta/edición de vehículo.
type VehicleRequest struct {
	Plate      string           `json:"plate" validate:"required,notblank"`
	Model      *string          `json:"model,omitempty"`
	CapacityKg *decimal.Decimal `json:"capacityKg,omitempty"`
}

// VehicleResponse vehículo.
type VehicleResponse struct {
	ID         string           `json:"id"`
	Plate      string           `json:"plate"`
	Model      *string          `json:"model,omitempty"`
	CapacityKg *decimal.Decimal `json:"capacityKg,omitempty"`
	IsActive   bool             `json:"isActive"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// DestinationRequest alta/edición de destino.
type DestinationRequest struct {
	Name    string  `json:"name" validate:"required,notblank"`
	Type    string  `json:"type" validate:"required,oneof=COOPERATIVA ATERRO INDUSTRIA COMPOSTAGEM"`
	Address *string `json:"address,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// DestinationResponse destino.
type DestinationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   *string   `json:"address,omitempty"`
	Contact   *string   `json:"contact,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// EmployeeRequest alta/edición de funcionário.
type EmployeeRequest struct {
	Name  string  `json:"name" validate:"required,notblank"`
	CPF   *string `json:"cpf,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// EmployeeResponse funcionário.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CPF       *string   `json:"cpf,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamRequest alta/edición de equipe.
type TeamRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

// AddTeamMemberRequest body de POST /teams/:id/members.
type AddTeamMemberRequest struct {
	EmployeeID string  `json:"employeeId" validate:"required"`
	Role       *string `json:"role,omitempty"`
}

// TeamMemberResponse miembro de equipe.
type TeamMemberResponse struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employeeId"`
	Role       *string           `json:"role,omitempty"`
	Employee   *EmployeeResponse `json:"employee,omitempty"`
}

// TeamResponse equipe con miembros (solo en el detalle).
type TeamResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	IsActive  bool                 `json:"isActive"`
	Members   []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// RouteRequest alta/edición de rota.
type RouteRequest struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Description *string `json:"description,omitempty"`
}

// AddRouteStopRequest body de POST /routes/:id/stops.
type AddRouteStopRequest struct {
	PointID       string  `json:"pointId" validate:"required"`
	OrderIndex    *int    `json:"orderIndex" validate:"required,min=0"`
	PlannedWindow *string `json:"plannedWindow,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// StopOrder nuevo índice de una parada.
type StopOrder struct {
	ID         string `json:"id" validate:"required"`
	OrderIndex int    `json:"orderIndex" validate:"min=0"`
}

// ReorderStopsRequest body de PUT /routes/:id/stops.
type ReorderStopsRequest struct {
	Stops []StopOrder `json:"stops" validate:"required,min=1,dive"`
}

// RouteStopResponse parada de una rota.
type RouteStopResponse struct {
	ID            string                   `json:"id"`
	PointID       string                   `json:"pointId"`
	OrderIndex    int                      `json:"orderIndex"`
	PlannedWindow *string                  `json:"plannedWindow,omitempty"`
	Notes         *string                  `json:"notes,omitempty"`
	Point         *CollectionPointResponse `json:"point,omitempty"`
}

// RouteResponse rota con paradas (solo en el detalle).
type RouteResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	IsActive    bool                `json:"isActive"`
	Stops       []RouteStopResponse `json:"stops,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}
