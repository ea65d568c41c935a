package panel

import (
	"strconv"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
)

// EspecificacionRoles panel de roles. Clave natural: nombre.
func EspecificacionRoles() Especificacion[entity.Rol] {
	return Especificacion[entity.Rol]{
		Entidad:  "roles",
		Nombre:   "rol",
		Titulo:   "Gestión de Roles",
		Permisos: entity.PermisosRoles,
		Campos:   func(bool) []string { return validacion.CamposRol() },
		ValidarExtra: func(v *validacion.Validador, r entity.Rol) map[string]string {
			if msg := v.Permisos(r.Permisos); msg != "" {
				return map[string]string{"permisos": msg}
			}
			return nil
		},
		ClaveNatural: func(r entity.Rol) string { return Clave(r.Nombre) },
		Clonar:       entity.Rol.Clonar,
		Fusionar: func(base, form entity.Rol) entity.Rol {
			form.ID = base.ID
			form.CreatedAt = base.CreatedAt
			return form
		},
		Preparar: func(r entity.Rol, s entity.Sello) entity.Rol {
			if r.Permisos == nil {
				r.Permisos = []string{}
			}
			sellar(&r.Estado, &r.CreatedAt, &r.UpdatedAt, s)
			return r
		},
		MsgEliminar:  "¿Estás seguro de que deseas marcar este rol como inactivo?",
		MsgRestaurar: "¿Estás seguro de que deseas reactivar este rol?",
		Columnas:     []string{"Nombre", "Descripción", "Permisos"},
		Fila: func(r entity.Rol) []string {
			return []string{r.Nombre, r.Descripcion, strconv.Itoa(len(r.Permisos))}
		},
	}
}
