package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/jhoicas/consola-admin/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/consola-admin/internal/interfaces/http"
)

const swaggerFile = "./docs/swagger.json"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la consola HTTP local",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := construir(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			log := c.log
			log.Info().
				Str("env", c.cfg.App.Env).
				Str("app", c.cfg.App.Name).
				Str("backend", c.cfg.Backend.URL).
				Str("session_driver", c.cfg.Session.Driver).
				Msg("iniciando consola")

			// Otra instancia de la consola puede iniciar o cerrar sesión sobre el mismo almacén.
			go func() {
				if err := c.sesion.Vigilar(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("vigilancia de sesión finalizada")
				}
			}()

			app := fiber.New(fiber.Config{
				AppName:      c.cfg.App.Name,
				ReadTimeout:  time.Second * 10,
				WriteTimeout: time.Second * 30,
				IdleTimeout:  time.Second * 60,
			})
			app.Use(recover.New())

			// Swagger UI en local: http://localhost:<port>/docs
			if _, err := os.Stat(swaggerFile); err == nil {
				app.Use(swagger.New(swagger.Config{
					BasePath: "/",
					FilePath: swaggerFile,
					Path:     "docs",
					Title:    "Consola de administración",
				}))
			}

			httpRouter.Router(app, httpRouter.RouterDeps{
				Servicio:       c.cfg.App.Name,
				Sesion:         c.sesion,
				Navegacion:     c.navegacion,
				Usuarios:       c.usuarios,
				Roles:          c.roles,
				TiposDocumento: c.tiposDocumento,
				Listados:       pdf.NewMarotoListadoGenerator(),
			})

			go func() {
				if err := app.Listen(c.cfg.HTTP.Addr()); err != nil {
					log.Error().Err(err).Msg("servidor HTTP finalizado")
				}
			}()

			<-ctx.Done()
			log.Info().Msg("señal de apagado recibida, cerrando servidor...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("apagado del servidor")
			}
			log.Info().Msg("consola detenida")
			return nil
		},
	}
}
