package panel

import (
	"context"
	"fmt"
	"time"
)

// Listado tabla de un panel lista para exportar.
type Listado struct {
	Titulo    string
	Autor     string
	Generado  time.Time
	Columnas  []string
	Activos   [][]string
	Inactivos [][]string
}

// GeneradorListado convierte un Listado en un documento (PDF).
type GeneradorListado interface {
	GenerarListado(ctx context.Context, l Listado) ([]byte, error)
}

// Listado recarga la colección y arma las filas de ambas particiones.
func (p *Panel[T]) Listado(ctx context.Context) (Listado, error) {
	if err := p.recargar(ctx); err != nil {
		return Listado{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	l := Listado{
		Titulo:    p.esp.Titulo,
		Autor:     p.actor(),
		Generado:  p.ahora(),
		Columnas:  p.esp.Columnas,
		Activos:   make([][]string, 0, len(p.activos)),
		Inactivos: make([][]string, 0, len(p.inactivos)),
	}
	for _, r := range p.activos {
		l.Activos = append(l.Activos, p.esp.Fila(r))
	}
	for _, r := range p.inactivos {
		l.Inactivos = append(l.Inactivos, p.esp.Fila(r))
	}
	return l, nil
}

// Exportar genera el documento del listado actual.
func (p *Panel[T]) Exportar(ctx context.Context, gen GeneradorListado) ([]byte, error) {
	l, err := p.Listado(ctx)
	if err != nil {
		p.contar("exportar", "error")
		return nil, err
	}
	doc, err := gen.GenerarListado(ctx, l)
	if err != nil {
		p.contar("exportar", "error")
		return nil, fmt.Errorf("exportar %s: %w", p.esp.Entidad, err)
	}
	p.contar("exportar", "ok")
	return doc, nil
}
