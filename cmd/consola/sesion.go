package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión contra el backend y guarda las credenciales",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CONSOLA_PASSWORD")
			}
			c, err := construir(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			err = c.sesion.IniciarSesion(cmd.Context(), sesion.Credenciales{Email: email, Password: password})
			var verr *domain.ErrorValidacion
			if errors.As(err, &verr) {
				for campo, msg := range verr.Campos {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", campo, msg)
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Bienvenido,", c.navegacion.Bienvenida())
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email del operador")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña (o CONSOLA_PASSWORD)")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión guardada",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := construir(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.sesion.CerrarSesion(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
			return nil
		},
	}
}

func newSesionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sesion",
		Short: "Muestra el operador autenticado y los módulos disponibles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := construir(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			barra := c.navegacion.Barra()
			if barra.Menu == nil {
				fmt.Fprintln(out, "Sin sesión. Use: consola login --email <email>")
				return nil
			}
			fmt.Fprintln(out, barra.Titulo)
			fmt.Fprintf(out, "%s (%s) <%s>\n", barra.Menu.NombreCompleto, barra.Menu.Rol, barra.Menu.Email)
			for _, m := range barra.Modulos {
				marca := "✗"
				if m.Permitido {
					marca = "✓"
				}
				fmt.Fprintf(out, "  %s %-22s %s\n", marca, m.Titulo, m.Ruta)
			}
			return nil
		},
	}
}

func newPermisosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "permisos",
		Short: "Lista el catálogo de permisos marcando los de la sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := construir(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			for _, p := range entity.CatalogoPermisos() {
				marca := " "
				if c.sesion.TienePermiso(p) {
					marca = "x"
				}
				fmt.Fprintf(out, "[%s] %s\n", marca, strings.ReplaceAll(p, "_", " "))
			}
			return nil
		},
	}
}
