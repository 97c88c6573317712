package entity

import "time"

// Organization representa el tenant: toda entidad del sistema pertenece a una organización.
type Organization struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
