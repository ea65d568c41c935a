package panel

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
)

// Especificacion lo que distingue a un panel de otro.
type Especificacion[T Entidad] struct {
	// Entidad etiqueta estable (métricas, logs, rutas): usuarios, roles, tipos_documento.
	Entidad string
	// Nombre singular en los mensajes: usuario, rol, tipo de documento.
	Nombre string
	// Titulo del listado exportado.
	Titulo   string
	Permisos entity.PermisosEntidad

	// Campos a validar según el modo del formulario.
	Campos func(creando bool) []string
	// ValidarExtra reglas que no son de un solo campo (ej. permisos de un rol).
	ValidarExtra func(v *validacion.Validador, form T) map[string]string
	// ClaveNatural clave normalizada para detectar duplicados inactivos.
	ClaveNatural func(T) string
	// Fusionar aplica los campos del formulario sobre un registro existente.
	Fusionar func(base, form T) T
	// Preparar estampa estado, marcas de tiempo y auditoría en el payload.
	Preparar func(registro T, s entity.Sello) T
	// Clonar copia profunda (slices y punteros) para que los formularios no
	// compartan memoria con el listado en caché. Opcional.
	Clonar func(T) T
	// Depurar limpia lo que no debe volver al backend (ej. password). Opcional.
	Depurar func(T) T
	// AlCargar se ejecuta antes de cada listado (ej. catálogos de referencia). Opcional.
	AlCargar func(ctx context.Context) error
	// Referencias nombres de catálogos para la vista. Opcional.
	Referencias func() map[string]map[entity.ID]string

	MsgEliminar  string
	MsgRestaurar string

	// Columnas y Fila del listado tabular (exportación y CLI).
	Columnas []string
	Fila     func(T) []string
}

// Clave normaliza partes de una clave natural: sin espacios alrededor y sin distinción
// de mayúsculas (case folding Unicode).
func Clave(partes ...string) string {
	fold := cases.Fold()
	norm := make([]string, len(partes))
	for i, p := range partes {
		norm[i] = fold.String(strings.TrimSpace(p))
	}
	return strings.Join(norm, "\x1f")
}

// sellar aplica un Sello a los campos comunes de ciclo de vida.
func sellar(estado **bool, creado, actualizado *entity.Momento, s entity.Sello) {
	*estado = entity.Estado(s.Activo)
	m := entity.NuevoMomento(s.Momento)
	if s.Creacion() {
		*creado = m
	}
	*actualizado = m
}
