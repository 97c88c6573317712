package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	OrgID      string    `json:"orgId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	EmployeeID *string   `json:"employeeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// OrganizationResponse tenant del usuario.
type OrganizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LoginResponse token JWT + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse sesión actual con organización y permisos efectivos del rol.
type MeResponse struct {
	User         UserResponse         `json:"user"`
	Organization OrganizationResponse `json:"organization"`
	Permissions  []string             `json:"permissions"`
}

// CreateUserRequest body de POST /users.
type CreateUserRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Name       string  `json:"name" validate:"required,notblank"`
	Role       string  `json:"role" validate:"required,oneof=ADMIN GESTOR_OPERACAO ALMOXARIFE SUPERVISOR COLETOR TRIAGEM VISUALIZADOR"`
	EmployeeID *string `json:"employeeId,omitempty"`
}
