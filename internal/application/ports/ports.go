package ports

import (
	"context"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// Autenticador intercambia credenciales por un token y la identidad del operador.
type Autenticador interface {
	IniciarSesion(ctx context.Context, email, password string) (token string, identidad *entity.Identidad, err error)
}

// AlmacenSesion almacenamiento clave/valor durable de la sesión con aviso de cambios.
// Las notificaciones incluyen las escrituras de otros procesos sobre el mismo almacén.
type AlmacenSesion interface {
	Leer(ctx context.Context, clave string) (valor string, ok bool, err error)
	// Escribir guarda todas las claves en una sola operación y con un único aviso.
	Escribir(ctx context.Context, valores map[string]string) error
	Borrar(ctx context.Context, claves ...string) error
	// Observar entrega un aviso por cada cambio; el canal se cierra al cancelar ctx.
	Observar(ctx context.Context) (<-chan struct{}, error)
	Close() error
}

// Confirmacion pregunta al operador; false aborta la operación.
type Confirmacion func(mensaje string) bool

// ErrorHTTP error del backend con estado HTTP.
type ErrorHTTP interface {
	error
	StatusCode() int
	// MensajeServidor "" si el backend no envió mensaje.
	MensajeServidor() string
}
