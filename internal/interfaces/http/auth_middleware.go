package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/rbac"
	"github.com/jhoicas/coleta-api/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalOrgID  = "org_id"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT y carga UserID, OrgID y Role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Token de autenticação ausente")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "Formato esperado: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "Token vazio")
		}
		session, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || session.OrgID == "" {
			return unauthorized(c, "INVALID_TOKEN", "Token inválido ou expirado")
		}
		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalOrgID, session.OrgID)
		c.Locals(LocalRole, session.Role)
		return c.Next()
	}
}

// RequirePermission exige que el rol de la sesión tenga perm. Debe ir después de AuthMiddleware.
//
//   - 401 si la sesión no trae rol.
//   - 403 si el rol no tiene el permiso (tabla fija de rbac).
func RequirePermission(perm rbac.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "MISSING_ROLE", "Sessão sem papel")
		}
		if !rbac.Allowed(entity.Role(role), perm) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Permissão insuficiente: " + string(perm),
				Code:  "FORBIDDEN",
			})
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetOrgID devuelve la organización de la sesión.
func GetOrgID(c *fiber.Ctx) string { return local(c, LocalOrgID) }

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

func local(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
