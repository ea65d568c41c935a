package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// SesionHandler inicio y cierre de sesión de la consola.
type SesionHandler struct {
	store *sesion.Store
}

// NewSesionHandler construye el handler de sesión.
func NewSesionHandler(store *sesion.Store) *SesionHandler {
	return &SesionHandler{store: store}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         sesion
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SesionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/sesion/login [post]
func (h *SesionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
	}
	if err := h.store.IniciarSesion(c.Context(), sesion.Credenciales{Email: in.Email, Password: in.Password}); err != nil {
		return responderError(c, err)
	}
	return c.JSON(h.estado())
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         sesion
// @Produce      json
// @Success      200  {object}  dto.SesionResponse
// @Router       /api/sesion/logout [post]
func (h *SesionHandler) Logout(c *fiber.Ctx) error {
	if err := h.store.CerrarSesion(c.Context()); err != nil {
		return responderError(c, err)
	}
	return c.JSON(h.estado())
}

// Estado godoc
// @Summary      Estado de la sesión
// @Tags         sesion
// @Produce      json
// @Success      200  {object}  dto.SesionResponse
// @Router       /api/sesion [get]
func (h *SesionHandler) Estado(c *fiber.Ctx) error {
	return c.JSON(h.estado())
}

// Permisos godoc
// @Summary      Catálogo de permisos y permisos de la sesión
// @Tags         sesion
// @Produce      json
// @Success      200  {object}  dto.PermisosResponse
// @Router       /api/permisos [get]
func (h *SesionHandler) Permisos(c *fiber.Ctx) error {
	out := dto.PermisosResponse{Catalogo: entity.CatalogoPermisos(), Sesion: []string{}}
	for _, p := range out.Catalogo {
		if h.store.TienePermiso(p) {
			out.Sesion = append(out.Sesion, p)
		}
	}
	return c.JSON(out)
}

func (h *SesionHandler) estado() dto.SesionResponse {
	id := h.store.Identidad()
	return dto.SesionResponse{Autenticado: id != nil, Usuario: id, Error: h.store.Error()}
}
