// Package pdf exporta los listados de los paneles a PDF.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO DEL PANEL                 │  Generado / Usuario       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ACTIVOS (n)                                                 │
//	│  columna | columna | ...                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INACTIVOS (n)                                               │
//	│  columna | columna | ...                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/consola-admin/internal/application/panel"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 102, Green: 126, Blue: 234}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const columnasGrilla = 12

// ── Generator ─────────────────────────────────────────────────────────────────

var _ panel.GeneradorListado = (*MarotoListadoGenerator)(nil)

// MarotoListadoGenerator implementa panel.GeneradorListado usando Maroto v2.
type MarotoListadoGenerator struct{}

// NewMarotoListadoGenerator construye el generador.
func NewMarotoListadoGenerator() *MarotoListadoGenerator { return &MarotoListadoGenerator{} }

// GenerarListado genera el PDF y devuelve sus bytes.
func (g *MarotoListadoGenerator) GenerarListado(_ context.Context, l panel.Listado) ([]byte, error) {
	if len(l.Columnas) == 0 || len(l.Columnas) > columnasGrilla {
		return nil, fmt.Errorf("pdf: cantidad de columnas no soportada: %d", len(l.Columnas))
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(l.Titulo, true).
		WithAuthor(l.Autor, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(encabezado(l))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	anchos := anchosColumnas(len(l.Columnas))
	m.AddRows(seccion("ACTIVOS", l.Columnas, l.Activos, anchos)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(seccion("INACTIVOS", l.Columnas, l.Inactivos, anchos)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// encabezado: título (izq) y fecha + autor (der).
func encabezado(l panel.Listado) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(l.Titulo, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+l.Generado.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Usuario: "+l.Autor, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// seccion: subtítulo con el total, cabecera de columnas y una fila por registro.
func seccion(titulo string, columnas []string, filas [][]string, anchos []int) []core.Row {
	out := make([]core.Row, 0, len(filas)+3)
	out = append(out, row.New(8).Add(
		col.New(columnasGrilla).Add(text.New(fmt.Sprintf("%s (%d)", titulo, len(filas)), props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		})),
	))

	cab := make([]core.Col, len(columnas))
	for i, c := range columnas {
		cab[i] = col.New(anchos[i]).Add(text.New(c, props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1, Right: 1,
		}))
	}
	out = append(out, row.New(7).Add(cab...))
	out = append(out, line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))

	if len(filas) == 0 {
		out = append(out, row.New(7).Add(
			col.New(columnasGrilla).Add(text.New("Sin registros", props.Text{
				Size: 8, Color: colorGray, Top: 1,
			})),
		))
		return out
	}
	for _, f := range filas {
		celdas := make([]core.Col, len(columnas))
		for i := range columnas {
			valor := ""
			if i < len(f) {
				valor = f[i]
			}
			celdas[i] = col.New(anchos[i]).Add(text.New(valor, props.Text{
				Size: 8, Top: 1, Left: 1, Right: 1,
			}))
		}
		out = append(out, row.New(6).Add(celdas...))
	}
	return out
}

// anchosColumnas reparte la grilla de 12; el resto va a las primeras columnas.
func anchosColumnas(n int) []int {
	anchos := make([]int, n)
	base, resto := columnasGrilla/n, columnasGrilla%n
	for i := range anchos {
		anchos[i] = base
		if i < resto {
			anchos[i]++
		}
	}
	return anchos
}
