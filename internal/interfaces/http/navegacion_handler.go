package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/navegacion"
)

// NavegacionHandler barra, menú e inicio.
type NavegacionHandler struct {
	shell *navegacion.Shell
}

// NewNavegacionHandler construye el handler.
func NewNavegacionHandler(shell *navegacion.Shell) *NavegacionHandler {
	return &NavegacionHandler{shell: shell}
}

// Barra godoc
// @Summary      Enlaces, menú de sesión y módulos de inicio
// @Tags         navegacion
// @Produce      json
// @Success      200  {object}  navegacion.Barra
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/navegacion [get]
func (h *NavegacionHandler) Barra(c *fiber.Ctx) error {
	return c.JSON(h.shell.Barra())
}

// Acceso godoc
// @Summary      Guardia de rutas
// @Tags         navegacion
// @Produce      json
// @Param        ruta  query  string  true  "ruta de la consola, ej. /users"
// @Success      200   {object}  navegacion.Decision
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/navegacion/acceso [get]
func (h *NavegacionHandler) Acceso(c *fiber.Ctx) error {
	ruta := c.Query("ruta")
	if ruta == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "ruta es requerida"})
	}
	return c.JSON(h.shell.Acceso(ruta))
}
