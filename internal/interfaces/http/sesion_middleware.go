package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// Locals keys.
const (
	LocalIdentidad = "identidad"
)

// sesionLector contrato mínimo que necesitan los middlewares; lo implementa *sesion.Store.
type sesionLector interface {
	Identidad() *entity.Identidad
	TienePermiso(permiso string) bool
}

// RequireSesion exige una sesión activa en la consola y deja la identidad en c.Locals.
func RequireSesion(s sesionLector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := s.Identidad()
		if id == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    CodeSinSesion,
				Message: "inicie sesión para continuar",
			})
		}
		c.Locals(LocalIdentidad, id)
		return c.Next()
	}
}

// RequirePermiso devuelve un middleware que verifica un permiso del catálogo.
// Debe usarse DESPUÉS de RequireSesion.
func RequirePermiso(s sesionLector, permiso string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.TienePermiso(permiso) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    CodeForbidden,
				Message: "permiso requerido: " + permiso,
			})
		}
		return c.Next()
	}
}

// GetIdentidad identidad del contexto (después de RequireSesion).
func GetIdentidad(c *fiber.Ctx) *entity.Identidad {
	v := c.Locals(LocalIdentidad)
	if v == nil {
		return nil
	}
	id, _ := v.(*entity.Identidad)
	return id
}
