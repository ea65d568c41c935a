package entity

// Permisos del catálogo fijo. Cada entidad tiene ver/crear/editar/eliminar.
const (
	PermisoVerUsuarios      = "ver_usuarios"
	PermisoCrearUsuarios    = "crear_usuarios"
	PermisoEditarUsuarios   = "editar_usuarios"
	PermisoEliminarUsuarios = "eliminar_usuarios"

	PermisoVerRoles      = "ver_roles"
	PermisoCrearRoles    = "crear_roles"
	PermisoEditarRoles   = "editar_roles"
	PermisoEliminarRoles = "eliminar_roles"

	PermisoVerTiposDocumento      = "ver_tipos_documento"
	PermisoCrearTiposDocumento    = "crear_tipos_documento"
	PermisoEditarTiposDocumento   = "editar_tipos_documento"
	PermisoEliminarTiposDocumento = "eliminar_tipos_documento"
)

// CatalogoPermisos devuelve el catálogo completo en orden de presentación.
func CatalogoPermisos() []string {
	return []string{
		PermisoVerUsuarios, PermisoCrearUsuarios, PermisoEditarUsuarios, PermisoEliminarUsuarios,
		PermisoVerRoles, PermisoCrearRoles, PermisoEditarRoles, PermisoEliminarRoles,
		PermisoVerTiposDocumento, PermisoCrearTiposDocumento, PermisoEditarTiposDocumento, PermisoEliminarTiposDocumento,
	}
}

// EsPermisoValido informa si p pertenece al catálogo.
func EsPermisoValido(p string) bool {
	for _, c := range CatalogoPermisos() {
		if c == p {
			return true
		}
	}
	return false
}

// PermisosEntidad permisos de una entidad de la consola.
type PermisosEntidad struct {
	Ver      string
	Crear    string
	Editar   string
	Eliminar string
}

var (
	PermisosUsuarios       = PermisosEntidad{PermisoVerUsuarios, PermisoCrearUsuarios, PermisoEditarUsuarios, PermisoEliminarUsuarios}
	PermisosRoles          = PermisosEntidad{PermisoVerRoles, PermisoCrearRoles, PermisoEditarRoles, PermisoEliminarRoles}
	PermisosTiposDocumento = PermisosEntidad{PermisoVerTiposDocumento, PermisoCrearTiposDocumento, PermisoEditarTiposDocumento, PermisoEliminarTiposDocumento}
)
