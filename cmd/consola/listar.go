package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/infrastructure/pdf"
)

func newListarCommand() *cobra.Command {
	var salida string

	cmd := &cobra.Command{
		Use:       "listar <usuarios|roles|tipos-documento>",
		Short:     "Lista los registros activos e inactivos (o los exporta a PDF)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"usuarios", "roles", "tipos-documento"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := construir(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			entidad := args[0]
			if !c.sesion.Autenticado() {
				return domain.ErrSinSesion
			}
			if p := permisoVer(entidad); p != "" && !c.sesion.TienePermiso(p) {
				return fmt.Errorf("%w: %s", domain.ErrForbidden, p)
			}

			l, err := c.listado(cmd.Context(), entidad)
			if err != nil {
				return err
			}
			if salida == "" {
				return imprimirListado(cmd.OutOrStdout(), l)
			}

			doc, err := pdf.NewMarotoListadoGenerator().GenerarListado(cmd.Context(), l)
			if err != nil {
				return err
			}
			if err := os.WriteFile(salida, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", salida, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Listado guardado en", salida)
			return nil
		},
	}

	cmd.Flags().StringVarP(&salida, "pdf", "o", "", "archivo PDF de salida")
	return cmd
}

func imprimirListado(w io.Writer, l panel.Listado) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(l.Titulo))
	for _, sec := range []struct {
		titulo string
		filas  [][]string
	}{{"ACTIVOS", l.Activos}, {"INACTIVOS", l.Inactivos}} {
		fmt.Fprintf(tw, "\n%s (%d)\n", sec.titulo, len(sec.filas))
		fmt.Fprintln(tw, strings.Join(l.Columnas, "\t"))
		for _, f := range sec.filas {
			fmt.Fprintln(tw, strings.Join(f, "\t"))
		}
	}
	return tw.Flush()
}
