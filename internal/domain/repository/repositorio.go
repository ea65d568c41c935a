package repository

import (
	"context"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// Repositorio acceso a una colección del backend. No existe borrado físico:
// el borrado lógico es un Actualizar con estado=false.
type Repositorio[T entity.Registro] interface {
	// Listar trae la colección completa; soloActivos agrega ?estado=true.
	Listar(ctx context.Context, soloActivos bool) ([]T, error)
	Crear(ctx context.Context, registro T) error
	Actualizar(ctx context.Context, id entity.ID, registro T) error
}
