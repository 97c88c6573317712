package entity

import "time"

// Role rol de un usuario dentro de su organización.
type Role string

// Roles válidos para User.
const (
	RoleAdmin          Role = "ADMIN"
	RoleGestorOperacao Role = "GESTOR_OPERACAO"
	RoleAlmoxarife     Role = "ALMOXARIFE"
	RoleSupervisor     Role = "SUPERVISOR"
	RoleColetor        Role = "COLETOR"
	RoleTriagem        Role = "TRIAGEM"
	RoleVisualizador   Role = "VISUALIZADOR"
)

// Roles lista completa en orden de privilegio.
var Roles = []Role{
	RoleAdmin, RoleGestorOperacao, RoleAlmoxarife, RoleSupervisor,
	RoleColetor, RoleTriagem, RoleVisualizador,
}

// Valid informa si r es un rol conocido.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Organization).
type User struct {
	ID           string
	OrgID        string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	IsActive     bool
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
