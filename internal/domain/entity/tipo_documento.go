package entity

// TipoDocumento tipo de documento de identidad (ej. CC, CE, NIT).
// Lleva además los campos de auditoría del último evento.
type TipoDocumento struct {
	ID              ID      `json:"id,omitempty"`
	Codigo          string  `json:"codigo"`
	Nombre          string  `json:"nombre"`
	Estado          *bool   `json:"estado,omitempty"`
	TipoAccion      Accion  `json:"tipoAccion,omitempty"`
	UsuarioAccion   string  `json:"usuarioAccion,omitempty"`
	FechaHoraEvento Momento `json:"fechaHoraEvento,omitzero"`
	CreatedAt       Momento `json:"createdAt,omitzero"`
	UpdatedAt       Momento `json:"updatedAt,omitzero"`
}

// Identificador implementa Registro.
func (t TipoDocumento) Identificador() ID { return t.ID }

// Activo implementa Registro.
func (t TipoDocumento) Activo() bool { return estadoActivo(t.Estado) }

// Clonar copia sin memoria compartida con el original.
func (t TipoDocumento) Clonar() TipoDocumento {
	t.Estado = copiarEstado(t.Estado)
	return t
}

// Campos valores del formulario para validación.
func (t TipoDocumento) Campos() map[string]string {
	return map[string]string{
		"codigo": t.Codigo,
		"nombre": t.Nombre,
	}
}
