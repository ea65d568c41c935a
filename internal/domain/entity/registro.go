package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID identificador de un registro del backend. El backend puede entregarlo como
// string o como número; ambos se normalizan a texto.
type ID string

// UnmarshalJSON acepta "abc", 12 y null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// String devuelve el id como texto.
func (id ID) String() string { return string(id) }

// Momento marca de tiempo tolerante: "" y null se leen como cero.
type Momento struct {
	time.Time
}

// NuevoMomento envuelve t en UTC.
func NuevoMomento(t time.Time) Momento { return Momento{Time: t.UTC()} }

// UnmarshalJSON acepta RFC3339 (formato de toISOString), "" y null.
func (m *Momento) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" || s == `""` {
		m.Time = time.Time{}
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("fecha inválida %s: %w", s, err)
	}
	m.Time = t
	return nil
}

// MarshalJSON serializa en RFC3339 con milisegundos.
func (m Momento) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(m.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// Registro contrato común de los registros con borrado lógico.
type Registro interface {
	Identificador() ID
	Activo() bool
}

// Estado construye el valor del flag de ciclo de vida.
func Estado(activo bool) *bool { return &activo }

// copiarEstado nuevo puntero con el mismo valor; nil se conserva.
func copiarEstado(e *bool) *bool {
	if e == nil {
		return nil
	}
	return Estado(*e)
}

// Un registro sin flag "estado" se considera activo.
func estadoActivo(e *bool) bool { return e == nil || *e }

// Accion tipo de evento de auditoría enviado al backend.
type Accion string

const (
	AccionCrear     Accion = "create"
	AccionEditar    Accion = "edit"
	AccionEliminar  Accion = "delete"
	AccionReactivar Accion = "reactivate"
)

// Sello datos que el cliente estampa en cada mutación.
type Sello struct {
	Accion  Accion
	Activo  bool
	Actor   string
	Momento time.Time
}

// Creacion indica si el sello corresponde a una creación.
func (s Sello) Creacion() bool { return s.Accion == AccionCrear }
