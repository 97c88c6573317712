package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssignmentRequest body de POST /assignments. Date en formato YYYY-MM-DD.
type CreateAssignmentRequest struct {
	RouteID   string  `json:"routeId" validate:"required"`
	TeamID    string  `json:"teamId" validate:"required"`
	VehicleID string  `json:"vehicleId" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Shift     *string `json:"shift,omitempty" validate:"omitempty,oneof=manha tarde noite"`
}

// AssignmentResponse agendamento. Route/Team/Vehicle/Runs solo en el detalle.
type AssignmentResponse struct {
	ID        string           `json:"id"`
	RouteID   string           `json:"routeId"`
	TeamID    string           `json:"teamId"`
	VehicleID string           `json:"vehicleId"`
	Date      string           `json:"date"`
	Shift     *string          `json:"shift,omitempty"`
	Route     *RouteResponse   `json:"route,omitempty"`
	Team      *TeamResponse    `json:"team,omitempty"`
	Vehicle   *VehicleResponse `json:"vehicle,omitempty"`
	Runs      []RunResponse    `json:"runs,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// StartRunRequest body de POST /runs/start.
type StartRunRequest struct {
	AssignmentID string `json:"assignmentId" validate:"required"`
}

// ArriveRequest body de POST /runs/:runId/stop/:stopId/arrive.
type ArriveRequest struct {
	Lat *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// CollectedItemInput ítem recogido. Unit por defecto "kg", IsEstimated por defecto true.
type CollectedItemInput struct {
	MaterialTypeID string          `json:"materialTypeId" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit,omitempty"`
	IsEstimated    *bool           `json:"isEstimated,omitempty"`
}

// RegisterItemsRequest body de POST /runs/:runId/stop/:stopId/collect. Reemplaza la lista completa.
type RegisterItemsRequest struct {
	Items []CollectedItemInput `json:"items" validate:"dive"`
	Notes *string              `json:"notes,omitempty"`
}

// CloseStopRequest body de POST /runs/:runId/stop/:stopId/close.
type CloseStopRequest struct {
	Status     string  `json:"status" validate:"required,oneof=COLETADO NAO_COLETADO"`
	SkipReason *string `json:"skipReason,omitempty"`
}

// UpdateRunRequest body de PUT /runs/:runId.
type UpdateRunRequest struct {
	Notes *string `json:"notes"`
}

// RunListQuery filtros de GET /runs.
type RunListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=EM_ANDAMENTO CONCLUIDO"`
	DateRangeQuery
}

// CollectedItemResponse ítem recogido.
type CollectedItemResponse struct {
	ID             string                `json:"id"`
	MaterialTypeID string                `json:"materialTypeId"`
	Quantity       decimal.Decimal       `json:"quantity"`
	Unit           string                `json:"unit"`
	IsEstimated    bool                  `json:"isEstimated"`
	MaterialType   *MaterialTypeResponse `json:"materialType,omitempty"`
}

// EventResponse visita a una parada.
type EventResponse struct {
	ID         string                  `json:"id"`
	RunID      string                  `json:"runId"`
	StopID     string                  `json:"stopId"`
	Status     string                  `json:"status"`
	ArrivedAt  *time.Time              `json:"arrivedAt,omitempty"`
	DepartedAt *time.Time              `json:"departedAt,omitempty"`
	Notes      *string                 `json:"notes,omitempty"`
	SkipReason *string                 `json:"skipReason,omitempty"`
	Lat        *float64                `json:"lat,omitempty"`
	Lng        *float64                `json:"lng,omitempty"`
	Stop       *RouteStopResponse      `json:"stop,omitempty"`
	Items      []CollectedItemResponse `json:"items"`
}

// RunResponse ejecución con sus eventos.
type RunResponse struct {
	ID           string          `json:"id"`
	AssignmentID string          `json:"assignmentId"`
	Status       string          `json:"status"`
	StartedAt    *time.Time      `json:"startedAt,omitempty"`
	EndedAt      *time.Time      `json:"endedAt,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Events       []EventResponse `json:"events,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
