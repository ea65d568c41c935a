package entity

import "strings"

// Identidad perfil del operador autenticado más sus permisos.
type Identidad struct {
	ID        ID       `json:"id"`
	Nombres   string   `json:"nombres"`
	Apellidos string   `json:"apellidos"`
	Email     string   `json:"email"`
	RolID     ID       `json:"rolId,omitempty"`
	RolNombre string   `json:"rolNombre,omitempty"`
	Permisos  []string `json:"permisos"`
}

// TienePermiso prueba de pertenencia sobre el conjunto de permisos.
func (i *Identidad) TienePermiso(permiso string) bool {
	if i == nil {
		return false
	}
	for _, p := range i.Permisos {
		if p == permiso {
			return true
		}
	}
	return false
}

// NombreCompleto nombres y apellidos, omitiendo los vacíos.
func (i *Identidad) NombreCompleto() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Nombres + " " + i.Apellidos)
}
