package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("existe un registro inactivo con la misma clave")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrNoConfirmado  = errors.New("operación no confirmada")
	ErrOcupado       = errors.New("hay una operación en curso")
	ErrSinFormulario = errors.New("no hay un formulario abierto")
	ErrSinSesion     = errors.New("no hay una sesión activa")
	ErrSinDuplicado  = errors.New("no hay un duplicado pendiente de confirmación")
)

// ErrorValidacion errores por campo de un formulario; nunca llega a la red.
type ErrorValidacion struct {
	Campos map[string]string
}

func (e *ErrorValidacion) Error() string { return "formulario con errores" }

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ErrorValidacion) Unwrap() error { return ErrInvalidInput }

// NuevoErrorValidacion nil si no hay errores.
func NuevoErrorValidacion(campos map[string]string) error {
	if len(campos) == 0 {
		return nil
	}
	return &ErrorValidacion{Campos: campos}
}
