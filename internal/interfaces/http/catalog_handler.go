package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/domain/rbac"
)

// catalogService contrato común de los casos de uso CRUD del catálogo (usecase.*UseCase).
type catalogService[Req, Resp any] interface {
	Create(ctx context.Context, orgID string, in Req) (*Resp, error)
	GetByID(ctx context.Context, orgID, id string) (*Resp, error)
	List(ctx context.Context, orgID string) ([]Resp, error)
	Update(ctx context.Context, orgID, id string, in Req) (*Resp, error)
	Delete(ctx context.Context, orgID, id string) error
}

// catalogPerms permisos de lectura/alta/edición/baja de un recurso.
type catalogPerms struct {
	Read, Create, Update, Delete rbac.Permission
}

// CatalogHandler CRUD genérico de entidades de catálogo (material-types, vehicles, ...).
type CatalogHandler[Req, Resp any] struct {
	svc        catalogService[Req, Resp]
	deletedMsg string
}

// NewCatalogHandler construye el handler; deletedMsg es la respuesta del DELETE.
func NewCatalogHandler[Req, Resp any](svc catalogService[Req, Resp], deletedMsg string) *CatalogHandler[Req, Resp] {
	return &CatalogHandler[Req, Resp]{svc: svc, deletedMsg: deletedMsg}
}

func (h *CatalogHandler[Req, Resp]) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), GetOrgID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

func (h *CatalogHandler[Req, Resp]) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.GetByID(c.UserContext(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

func (h *CatalogHandler[Req, Resp]) Create(c *fiber.Ctx) error {
	var in Req
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Create(c.UserContext(), GetOrgID(c), in)
	if err != nil {
		return err
	}
	return created(c, out)
}

func (h *CatalogHandler[Req, Resp]) Update(c *fiber.Ctx) error {
	var in Req
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(c.UserContext(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Delete desactiva (baja lógica).
func (h *CatalogHandler[Req, Resp]) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetOrgID(c), c.Params("id")); err != nil {
		return err
	}
	return message(c, h.deletedMsg)
}

// mountCatalog registra GET/POST en path y GET/PUT/DELETE en path/:id, cada uno con su permiso.
func mountCatalog[Req, Resp any](r fiber.Router, path string, perms catalogPerms, svc catalogService[Req, Resp], deletedMsg string) fiber.Router {
	h := NewCatalogHandler(svc, deletedMsg)
	g := r.Group(path)
	g.Get("/", RequirePermission(perms.Read), h.List)
	g.Post("/", RequirePermission(perms.Create), h.Create)
	g.Get("/:id", RequirePermission(perms.Read), h.GetByID)
	g.Put("/:id", RequirePermission(perms.Update), h.Update)
	g.Delete("/:id", RequirePermission(perms.Delete), h.Delete)
	return g
}
