package entity

import "time"

// Route secuencia ordenada de puntos de recolección (orden manual, sin optimización).
type Route struct {
	ID          string
	OrgID       string
	Name        string
	Description *string
	IsActive    bool
	Stops       []RouteStop
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RouteStop parada de una ruta. OrderIndex es único dentro de la ruta.
type RouteStop struct {
	ID            string
	RouteID       string
	PointID       string
	OrderIndex    int
	PlannedWindow *string
	Notes         *string
	Point         *CollectionPoint
	CreatedAt     time.Time
}
