package entity

import "time"

// Employee funcionario de campo (coletor, motorista, triagem).
type Employee struct {
	ID        string
	OrgID     string
	Name      string
	CPF       *string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Team equipo de recolección.
type Team struct {
	ID        string
	OrgID     string
	Name      string
	IsActive  bool
	Members   []TeamMember
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMember un funcionario aparece una sola vez por equipo.
type TeamMember struct {
	ID         string
	TeamID     string
	EmployeeID string
	Role       *string
	Employee   *Employee
	CreatedAt  time.Time
}
