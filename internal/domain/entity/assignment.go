package entity

import "time"

// Shift turno de una asignación.
type Shift string

// Turnos válidos.
const (
	ShiftManha Shift = "manha"
	ShiftTarde Shift = "tarde"
	ShiftNoite Shift = "noite"
)

// Valid informa si s es un turno conocido.
func (s Shift) Valid() bool {
	switch s {
	case ShiftManha, ShiftTarde, ShiftNoite:
		return true
	}
	return false
}

// RouteAssignment programación de ruta × equipo × vehículo para una fecha (y turno opcional).
// No se puede borrar una vez que existe una CollectionRun que la referencia.
type RouteAssignment struct {
	ID        string
	OrgID     string
	RouteID   string
	TeamID    string
	VehicleID string
	Date      time.Time
	Shift     *Shift
	Route     *Route
	Team      *Team
	Vehicle   *Vehicle
	Runs      []CollectionRun
	CreatedAt time.Time
	UpdatedAt time.Time
}
