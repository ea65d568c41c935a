package entity

// Usuario registro de usuario tal como lo expone el backend.
// Password solo viaja hacia el backend: requerido al crear, omitido al editar si está vacío.
type Usuario struct {
	ID              ID      `json:"id,omitempty"`
	Nombres         string  `json:"nombres"`
	Apellidos       string  `json:"apellidos"`
	TipoDocumentoID ID      `json:"tipoDocumentoId"`
	NumeroDocumento string  `json:"numeroDocumento"`
	Genero          string  `json:"genero"`
	Email           string  `json:"email"`
	Telefono        string  `json:"telefono"`
	RolID           ID      `json:"rolId"`
	FechaNacimiento string  `json:"fechaNacimiento"` // YYYY-MM-DD
	Foto            string  `json:"foto"`
	Direccion       string  `json:"direccion"`
	Password        string  `json:"password,omitempty"`
	Estado          *bool   `json:"estado,omitempty"`
	CreatedAt       Momento `json:"createdAt,omitzero"`
	UpdatedAt       Momento `json:"updatedAt,omitzero"`
}

// Identificador implementa Registro.
func (u Usuario) Identificador() ID { return u.ID }

// Activo implementa Registro.
func (u Usuario) Activo() bool { return estadoActivo(u.Estado) }

// Clonar copia sin memoria compartida con el original.
func (u Usuario) Clonar() Usuario {
	u.Estado = copiarEstado(u.Estado)
	return u
}

// NombreCompleto nombres y apellidos separados por espacio.
func (u Usuario) NombreCompleto() string {
	if u.Apellidos == "" {
		return u.Nombres
	}
	return u.Nombres + " " + u.Apellidos
}

// Campos valores del formulario indexados por el nombre de campo usado en validación.
func (u Usuario) Campos() map[string]string {
	return map[string]string{
		"nombres":         u.Nombres,
		"apellidos":       u.Apellidos,
		"tipoDocumentoId": u.TipoDocumentoID.String(),
		"numeroDocumento": u.NumeroDocumento,
		"genero":          u.Genero,
		"email":           u.Email,
		"telefono":        u.Telefono,
		"rolId":           u.RolID.String(),
		"fechaNacimiento": u.FechaNacimiento,
		"foto":            u.Foto,
		"direccion":       u.Direccion,
		"password":        u.Password,
	}
}

// Generos valores válidos para Usuario.Genero.
var Generos = []string{"Masculino", "Femenino", "Otro"}
