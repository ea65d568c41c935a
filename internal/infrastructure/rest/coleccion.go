// Package rest adaptadores de los puertos de la consola sobre el backend REST.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/repository"
	"github.com/jhoicas/consola-admin/internal/infrastructure/api"
)

// Rutas de las colecciones del backend.
const (
	RutaUsuarios        = "/usuarios"
	RutaRoles           = "/roles"
	RutaTiposDocumento  = "/document-types"
	RutaLogin           = "/auth/login"
	envoltorioUsuarios  = "usuarios"
	envoltorioGenerico  = "data"
	consultaSoloActivos = "?estado=true"
)

var (
	_ repository.Repositorio[entity.Usuario]       = (*Coleccion[entity.Usuario])(nil)
	_ repository.Repositorio[entity.Rol]           = (*Coleccion[entity.Rol])(nil)
	_ repository.Repositorio[entity.TipoDocumento] = (*Coleccion[entity.TipoDocumento])(nil)
)

// Coleccion repositorio genérico sobre una ruta REST (GET/POST ruta, PUT ruta/{id}).
type Coleccion[T entity.Registro] struct {
	cliente    *api.Client
	ruta       string
	envoltorio string
}

// NewUsuarioRepository colección /usuarios; la lista puede venir como {"usuarios": [...]}.
func NewUsuarioRepository(c *api.Client) *Coleccion[entity.Usuario] {
	return &Coleccion[entity.Usuario]{cliente: c, ruta: RutaUsuarios, envoltorio: envoltorioUsuarios}
}

// NewRolRepository colección /roles.
func NewRolRepository(c *api.Client) *Coleccion[entity.Rol] {
	return &Coleccion[entity.Rol]{cliente: c, ruta: RutaRoles, envoltorio: envoltorioGenerico}
}

// NewTipoDocumentoRepository colección /document-types.
func NewTipoDocumentoRepository(c *api.Client) *Coleccion[entity.TipoDocumento] {
	return &Coleccion[entity.TipoDocumento]{cliente: c, ruta: RutaTiposDocumento, envoltorio: envoltorioGenerico}
}

// Listar trae la colección completa o solo los activos.
func (r *Coleccion[T]) Listar(ctx context.Context, soloActivos bool) ([]T, error) {
	ruta := r.ruta
	if soloActivos {
		ruta += consultaSoloActivos
	}
	var raw json.RawMessage
	if err := r.cliente.Get(ctx, ruta, &raw); err != nil {
		return nil, err
	}
	lista, err := decodificarLista[T](raw, r.envoltorio)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", r.ruta, err)
	}
	return lista, nil
}

// Crear POST a la colección.
func (r *Coleccion[T]) Crear(ctx context.Context, registro T) error {
	return r.cliente.Post(ctx, r.ruta, registro, nil)
}

// Actualizar PUT del registro completo; también se usa para el borrado lógico.
// El id viaja escapado como un único segmento de la ruta.
func (r *Coleccion[T]) Actualizar(ctx context.Context, id entity.ID, registro T) error {
	return r.cliente.Put(ctx, r.ruta+"/"+url.PathEscape(id.String()), registro, nil)
}

// decodificarLista acepta un arreglo, un objeto {"<envoltorio>": [...]} o null.
func decodificarLista[T any](raw json.RawMessage, envoltorio string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '[' {
		var lista []T
		if err := json.Unmarshal(raw, &lista); err != nil {
			return nil, err
		}
		return lista, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("formato de lista desconocido: %w", err)
	}
	for _, clave := range []string{envoltorio, envoltorioGenerico} {
		if interno, ok := obj[clave]; ok {
			return decodificarLista[T](interno, "")
		}
	}
	return []T{}, nil
}
