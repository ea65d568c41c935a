package entity

// Rol agrupa permisos del catálogo fijo.
type Rol struct {
	ID          ID       `json:"id,omitempty"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion"`
	Permisos    []string `json:"permisos"`
	Estado      *bool    `json:"estado,omitempty"`
	CreatedAt   Momento  `json:"createdAt,omitzero"`
	UpdatedAt   Momento  `json:"updatedAt,omitzero"`
}

// Identificador implementa Registro.
func (r Rol) Identificador() ID { return r.ID }

// Activo implementa Registro.
func (r Rol) Activo() bool { return estadoActivo(r.Estado) }

// Clonar copia sin memoria compartida con el original.
func (r Rol) Clonar() Rol {
	r.Estado = copiarEstado(r.Estado)
	if r.Permisos != nil {
		r.Permisos = append(make([]string, 0, len(r.Permisos)), r.Permisos...)
	}
	return r
}

// Campos valores del formulario para validación.
func (r Rol) Campos() map[string]string {
	return map[string]string{
		"nombre":      r.Nombre,
		"descripcion": r.Descripcion,
	}
}

// TienePermiso informa si el rol incluye el permiso.
func (r Rol) TienePermiso(permiso string) bool {
	for _, p := range r.Permisos {
		if p == permiso {
			return true
		}
	}
	return false
}

// AlternarPermiso agrega el permiso si no está o lo quita si ya está.
func (r *Rol) AlternarPermiso(permiso string) {
	for i, p := range r.Permisos {
		if p == permiso {
			r.Permisos = append(r.Permisos[:i:i], r.Permisos[i+1:]...)
			return
		}
	}
	r.Permisos = append(r.Permisos, permiso)
}
