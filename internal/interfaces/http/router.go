package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/navegacion"
	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Servicio       string
	Sesion         *sesion.Store
	Navegacion     *navegacion.Shell
	Usuarios       *panel.Panel[entity.Usuario]
	Roles          *panel.Panel[entity.Rol]
	TiposDocumento *panel.Panel[entity.TipoDocumento]
	// Listados generador PDF de los listados; nil deshabilita /exportar.
	Listados panel.GeneradorListado
}

// Router registra las rutas de la consola.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status:      "ok",
			Service:     deps.Servicio,
			Autenticado: deps.Sesion.Autenticado(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Sesión (público)
	sesionHandler := NewSesionHandler(deps.Sesion)
	api.Get("/sesion", sesionHandler.Estado)
	api.Post("/sesion/login", sesionHandler.Login)
	api.Post("/sesion/logout", sesionHandler.Logout)
	api.Get("/permisos", sesionHandler.Permisos)

	// La guardia responde también sin sesión (redirección a /login).
	navHandler := NewNavegacionHandler(deps.Navegacion)
	api.Get("/navegacion/acceso", navHandler.Acceso)

	// Rutas protegidas (requieren sesión activa en la consola)
	protected := api.Group("/", RequireSesion(deps.Sesion))
	protected.Get("/navegacion", navHandler.Barra)

	NewPanelHandler(deps.Usuarios, deps.Listados).Registrar(protected.Group("/usuarios"), deps.Sesion)
	NewPanelHandler(deps.Roles, deps.Listados).Registrar(protected.Group("/roles"), deps.Sesion)
	NewPanelHandler(deps.TiposDocumento, deps.Listados).Registrar(protected.Group("/tipos-documento"), deps.Sesion)
}
