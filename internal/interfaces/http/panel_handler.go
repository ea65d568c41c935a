package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// PanelHandler expone el ciclo de vida de un panel (usuarios, roles, tipos de documento).
type PanelHandler[T panel.Entidad] struct {
	panel *panel.Panel[T]
	gen   panel.GeneradorListado
}

// NewPanelHandler construye el handler; gen puede ser nil (sin exportación PDF).
func NewPanelHandler[T panel.Entidad](p *panel.Panel[T], gen panel.GeneradorListado) *PanelHandler[T] {
	return &PanelHandler[T]{panel: p, gen: gen}
}

// Registrar monta las rutas del panel con los permisos de su entidad.
func (h *PanelHandler[T]) Registrar(r fiber.Router, s sesionLector) {
	perm := h.panel.Especificacion().Permisos
	r.Get("/", RequirePermiso(s, perm.Ver), h.List)
	r.Get("/vista", RequirePermiso(s, perm.Ver), h.Vista)
	r.Get("/exportar", RequirePermiso(s, perm.Ver), h.Exportar)
	r.Post("/", RequirePermiso(s, perm.Crear), h.Create)
	r.Post("/reactivacion", RequirePermiso(s, perm.Crear), h.Reactivar)
	r.Delete("/reactivacion", RequirePermiso(s, perm.Crear), h.CancelarDuplicado)
	r.Delete("/formulario", h.Cerrar)
	r.Put("/:id", RequirePermiso(s, perm.Editar), h.Update)
	r.Delete("/:id", RequirePermiso(s, perm.Eliminar), h.Delete)
	r.Post("/:id/restaurar", RequirePermiso(s, perm.Editar), h.Restore)
}

// List godoc
// @Summary      Listar registros (activos e inactivos)
// @Tags         paneles
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/{entidad} [get]
func (h *PanelHandler[T]) List(c *fiber.Ctx) error {
	vista, err := h.panel.Cargar(c.Context())
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(vista)
}

// Vista godoc
// @Summary      Estado actual del panel sin recargar
// @Tags         paneles
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/{entidad}/vista [get]
func (h *PanelHandler[T]) Vista(c *fiber.Ctx) error {
	return c.JSON(h.panel.Vista())
}

// Create godoc
// @Summary      Crear registro
// @Description  Si existe un registro inactivo con la misma clave responde 409 DUPLICATE con el registro; confirmar con POST /reactivacion.
// @Tags         paneles
// @Accept       json
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/{entidad} [post]
func (h *PanelHandler[T]) Create(c *fiber.Ctx) error {
	var form T
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
	}
	res, err := h.panel.GuardarNuevo(c.Context(), form)
	if err != nil {
		return h.errorGuardar(c, res, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.panel.Vista())
}

// Update godoc
// @Summary      Editar registro activo
// @Description  El cuerpo se aplica sobre los valores actuales del registro; los campos omitidos se conservan.
// @Tags         paneles
// @Accept       json
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Param        id       path  string  true  "ID del registro"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/{id} [put]
func (h *PanelHandler[T]) Update(c *fiber.Ctx) error {
	var errCuerpo error
	res, err := h.panel.GuardarEdicion(c.Context(), entity.ID(c.Params("id")), func(form *T) error {
		errCuerpo = c.BodyParser(form)
		return errCuerpo
	})
	if errCuerpo != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
	}
	if err != nil {
		return h.errorGuardar(c, res, err)
	}
	return c.JSON(h.panel.Vista())
}

// Reactivar godoc
// @Summary      Reactivar el registro inactivo duplicado
// @Tags         paneles
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/reactivacion [post]
func (h *PanelHandler[T]) Reactivar(c *fiber.Ctx) error {
	res, err := h.panel.Reactivar(c.Context())
	if err != nil {
		return h.errorGuardar(c, res, err)
	}
	return c.JSON(h.panel.Vista())
}

// CancelarDuplicado godoc
// @Summary      Descartar la reactivación y volver al formulario
// @Tags         paneles
// @Produce      json
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/reactivacion [delete]
func (h *PanelHandler[T]) CancelarDuplicado(c *fiber.Ctx) error {
	if err := h.panel.CancelarDuplicado(); err != nil {
		return responderError(c, err)
	}
	return c.JSON(h.panel.Vista())
}

// Cerrar godoc
// @Summary      Cerrar el formulario sin guardar
// @Tags         paneles
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      204
// @Router       /api/{entidad}/formulario [delete]
func (h *PanelHandler[T]) Cerrar(c *fiber.Ctx) error {
	h.panel.Cerrar()
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar (borrado lógico)
// @Tags         paneles
// @Produce      json
// @Param        entidad    path   string  true   "usuarios | roles | tipos-documento"
// @Param        id         path   string  true   "ID del registro"
// @Param        confirmar  query  bool    false  "confirmación del operador"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/{id} [delete]
func (h *PanelHandler[T]) Delete(c *fiber.Ctx) error {
	confirmar, pregunta := confirmacion(c)
	if err := h.panel.Eliminar(c.Context(), entity.ID(c.Params("id")), confirmar); err != nil {
		return errorConfirmacion(c, *pregunta, err)
	}
	return c.JSON(h.panel.Vista())
}

// Restore godoc
// @Summary      Restaurar registro inactivo
// @Tags         paneles
// @Produce      json
// @Param        entidad    path   string  true   "usuarios | roles | tipos-documento"
// @Param        id         path   string  true   "ID del registro"
// @Param        confirmar  query  bool    false  "confirmación del operador"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/{id}/restaurar [post]
func (h *PanelHandler[T]) Restore(c *fiber.Ctx) error {
	confirmar, pregunta := confirmacion(c)
	if err := h.panel.Restaurar(c.Context(), entity.ID(c.Params("id")), confirmar); err != nil {
		return errorConfirmacion(c, *pregunta, err)
	}
	return c.JSON(h.panel.Vista())
}

// Exportar godoc
// @Summary      Listado en PDF
// @Tags         paneles
// @Produce      application/pdf
// @Param        entidad  path  string  true  "usuarios | roles | tipos-documento"
// @Success      200  {file}  binary
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/{entidad}/exportar [get]
func (h *PanelHandler[T]) Exportar(c *fiber.Ctx) error {
	if h.gen == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: CodeInternal, Message: "exportación no disponible"})
	}
	pdf, err := h.panel.Exportar(c.Context(), h.gen)
	if err != nil {
		return responderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+h.panel.Especificacion().Entidad+`.pdf"`)
	return c.Send(pdf)
}

func (h *PanelHandler[T]) errorGuardar(c *fiber.Ctx, res panel.Resultado[T], err error) error {
	if errors.Is(err, domain.ErrDuplicate) && res.Duplicado != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      CodeDuplicate,
			Message:   err.Error(),
			Duplicado: res.Duplicado,
		})
	}
	return responderError(c, err)
}

// confirmacion responde con ?confirmar y guarda la pregunta que hizo el panel.
func confirmacion(c *fiber.Ctx) (func(string) bool, *string) {
	pregunta := new(string)
	ok := c.QueryBool("confirmar", false)
	return func(msg string) bool {
		*pregunta = msg
		return ok
	}, pregunta
}

func errorConfirmacion(c *fiber.Ctx, pregunta string, err error) error {
	if errors.Is(err, domain.ErrNoConfirmado) {
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{
			Code:         CodeConfirmationRequired,
			Message:      err.Error(),
			Confirmacion: pregunta,
		})
	}
	return responderError(c, err)
}
