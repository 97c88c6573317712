package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/rbac"
	"github.com/jhoicas/coleta-api/internal/domain/repository"
	"github.com/jhoicas/coleta-api/pkg/jwt"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RegisterInput alta de usuario (seed/CLI; no hay endpoint público de registro).
type RegisterInput struct {
	OrgID      string
	Email      string
	Password   string
	Name       string
	Role       entity.Role
	EmployeeID *string
}

// AuthUseCase casos de uso de autenticación: registro, login y sesión actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, orgRepo: orgRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in RegisterInput) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 6 {
		return nil, domain.Invalid("email e senha (mínimo 6 caracteres) são obrigatórios")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVisualizador
	}
	if !role.Valid() {
		return nil, domain.Invalid("papel inválido: " + string(role))
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.Error{Kind: domain.ErrDuplicate, Msg: "Email já cadastrado"}
	}
	org, err := uc.orgRepo.GetByID(ctx, in.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NotFound("Organização não encontrada")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		OrgID:        org.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
		EmployeeID:   in.EmployeeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.UserFrom(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Usuario inexistente, contraseña incorrecta o usuario inactivo responden igual (401).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.OrgID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *dto.UserFrom(user),
	}, nil
}

// Me devuelve el usuario de la sesión, su organización y los permisos del rol.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, &domain.Error{Kind: domain.ErrUnauthorized, Msg: "Sessão inválida"}
	}
	org, err := uc.orgRepo.GetByID(ctx, user.OrgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NotFound("Organização não encontrada")
	}
	return &dto.MeResponse{
		User:         *dto.UserFrom(user),
		Organization: dto.OrganizationResponse{ID: org.ID, Name: org.Name, Slug: org.Slug},
		Permissions:  lo.Map(rbac.Permissions(user.Role), func(p rbac.Permission, _ int) string { return string(p) }),
	}, nil
}

func invalidCredentials() error {
	return &domain.Error{Kind: domain.ErrUnauthorized, Msg: "Credenciais inválidas"}
}
