package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/application/auth"
	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/testutil/memstore"
	"github.com/jhoicas/coleta-api/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *memstore.Fixture) {
	t.Helper()
	s := memstore.New()
	fx := s.Seed(0)
	uc := auth.NewAuthUseCase(s.Users(), s.Organizations(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "coleta-api"})
	return uc, fx
}

func TestLogin_TokenConRolYOrganizacion(t *testing.T) {
	uc, fx := setup(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: " Coletor@Example.com ", Password: "segredo1", Name: "Carlos", Role: entity.RoleColetor})
	require.NoError(t, err)
	assert.Equal(t, "coletor@example.com", u.Email)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "coletor@example.com", Password: "segredo1"})
	require.NoError(t, err)
	sess, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
	assert.Equal(t, fx.Org.ID, sess.OrgID)
	assert.Equal(t, "COLETOR", sess.Role)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Org.Name, me.Organization.Name)
	assert.Contains(t, me.Permissions, "runs:execute")
	assert.NotContains(t, me.Permissions, "stock:movement")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, fx := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: "a@b.com", Password: "segredo1"})
	require.NoError(t, err)

	cases := map[string]dto.LoginRequest{
		"usuario inexistente": {Email: "x@b.com", Password: "segredo1"},
		"password incorrecto": {Email: "a@b.com", Password: "errada99"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Login(ctx, in)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, "Credenciais inválidas", domain.Message(err))
		})
	}
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, fx := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: "a@b.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: "a@b.com", Password: "segredo1", Role: "CHEFE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{OrgID: "nope", Email: "a@b.com", Password: "segredo1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: "a@b.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, "VISUALIZADOR", u.Role)

	_, err = uc.RegisterUser(ctx, auth.RegisterInput{OrgID: fx.Org.ID, Email: "A@B.com", Password: "segredo1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
