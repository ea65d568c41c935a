package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/repository"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
)

// SinReferencia nombre mostrado cuando un id no está en el catálogo.
const SinReferencia = "N/A"

// Referencias catálogos activos de roles y tipos de documento para el panel de usuarios.
type Referencias struct {
	roles repository.Repositorio[entity.Rol]
	tipos repository.Repositorio[entity.TipoDocumento]

	mu          sync.RWMutex
	nombresRol  map[entity.ID]string
	nombresTipo map[entity.ID]string
}

// NuevasReferencias catálogos vacíos hasta el primer Cargar.
func NuevasReferencias(roles repository.Repositorio[entity.Rol], tipos repository.Repositorio[entity.TipoDocumento]) *Referencias {
	return &Referencias{
		roles:       roles,
		tipos:       tipos,
		nombresRol:  map[entity.ID]string{},
		nombresTipo: map[entity.ID]string{},
	}
}

// Cargar trae roles y tipos de documento activos. Un catálogo que falla queda con
// su contenido anterior.
func (r *Referencias) Cargar(ctx context.Context) error {
	var errs []error

	if roles, err := r.roles.Listar(ctx, true); err != nil {
		errs = append(errs, err)
	} else {
		nombres := make(map[entity.ID]string, len(roles))
		for _, rol := range roles {
			nombres[rol.ID] = rol.Nombre
		}
		r.mu.Lock()
		r.nombresRol = nombres
		r.mu.Unlock()
	}

	if tipos, err := r.tipos.Listar(ctx, true); err != nil {
		errs = append(errs, err)
	} else {
		nombres := make(map[entity.ID]string, len(tipos))
		for _, t := range tipos {
			nombres[t.ID] = t.Nombre
		}
		r.mu.Lock()
		r.nombresTipo = nombres
		r.mu.Unlock()
	}
	return errors.Join(errs...)
}

// NombreRol nombre del rol o N/A.
func (r *Referencias) NombreRol(id entity.ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.nombresRol[id]; ok && n != "" {
		return n
	}
	return SinReferencia
}

// NombreTipoDocumento nombre del tipo de documento o N/A.
func (r *Referencias) NombreTipoDocumento(id entity.ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.nombresTipo[id]; ok && n != "" {
		return n
	}
	return SinReferencia
}

// Mapa copia de ambos catálogos.
func (r *Referencias) Mapa() map[string]map[entity.ID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	copiar := func(m map[entity.ID]string) map[entity.ID]string {
		out := make(map[entity.ID]string, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return map[string]map[entity.ID]string{
		"roles":          copiar(r.nombresRol),
		"tiposDocumento": copiar(r.nombresTipo),
	}
}

// EspecificacionUsuarios panel de usuarios. Clave natural: nombres + apellidos.
func EspecificacionUsuarios(refs *Referencias) Especificacion[entity.Usuario] {
	return Especificacion[entity.Usuario]{
		Entidad:  "usuarios",
		Nombre:   "usuario",
		Titulo:   "Gestión de Usuarios",
		Permisos: entity.PermisosUsuarios,
		Campos:   validacion.CamposUsuario,
		ClaveNatural: func(u entity.Usuario) string {
			return Clave(u.Nombres, u.Apellidos)
		},
		Clonar: entity.Usuario.Clonar,
		Fusionar: func(base, form entity.Usuario) entity.Usuario {
			form.ID = base.ID
			form.CreatedAt = base.CreatedAt
			return form
		},
		Preparar: func(u entity.Usuario, s entity.Sello) entity.Usuario {
			sellar(&u.Estado, &u.CreatedAt, &u.UpdatedAt, s)
			return u
		},
		Depurar: func(u entity.Usuario) entity.Usuario {
			u.Password = ""
			return u
		},
		AlCargar:     refs.Cargar,
		Referencias:  refs.Mapa,
		MsgEliminar:  "¿Estás seguro de que deseas marcar este usuario como inactivo?",
		MsgRestaurar: "¿Estás seguro de que deseas reactivar este usuario?",
		Columnas:     []string{"Nombres", "Apellidos", "Documento", "Email", "Teléfono", "Rol"},
		Fila: func(u entity.Usuario) []string {
			return []string{
				u.Nombres,
				u.Apellidos,
				refs.NombreTipoDocumento(u.TipoDocumentoID) + " - " + u.NumeroDocumento,
				u.Email,
				u.Telefono,
				refs.NombreRol(u.RolID),
			}
		},
	}
}
