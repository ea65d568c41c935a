package panel

import (
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
)

// EspecificacionTiposDocumento panel de tipos de documento. Clave natural: código.
// Cada mutación registra además tipoAccion, usuarioAccion y fechaHoraEvento.
func EspecificacionTiposDocumento() Especificacion[entity.TipoDocumento] {
	return Especificacion[entity.TipoDocumento]{
		Entidad:      "tipos_documento",
		Nombre:       "tipo de documento",
		Titulo:       "Tipos de Documento",
		Permisos:     entity.PermisosTiposDocumento,
		Campos:       func(bool) []string { return validacion.CamposTipoDocumento() },
		ClaveNatural: func(t entity.TipoDocumento) string { return Clave(t.Codigo) },
		Clonar:       entity.TipoDocumento.Clonar,
		Fusionar: func(base, form entity.TipoDocumento) entity.TipoDocumento {
			form.ID = base.ID
			form.CreatedAt = base.CreatedAt
			return form
		},
		Preparar: func(t entity.TipoDocumento, s entity.Sello) entity.TipoDocumento {
			sellar(&t.Estado, &t.CreatedAt, &t.UpdatedAt, s)
			t.TipoAccion = s.Accion
			t.UsuarioAccion = s.Actor
			t.FechaHoraEvento = entity.NuevoMomento(s.Momento)
			return t
		},
		MsgEliminar:  "¿Deseas marcar este tipo de documento como inactivo?",
		MsgRestaurar: "¿Deseas reactivar este tipo de documento?",
		Columnas:     []string{"Código", "Nombre", "Última acción", "Usuario", "Fecha"},
		Fila: func(t entity.TipoDocumento) []string {
			fecha := ""
			if !t.FechaHoraEvento.IsZero() {
				fecha = t.FechaHoraEvento.Format("2006-01-02 15:04")
			}
			return []string{t.Codigo, t.Nombre, string(t.TipoAccion), t.UsuarioAccion, fecha}
		},
	}
}
