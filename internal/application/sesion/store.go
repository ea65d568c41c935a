// Package sesion estado de autenticación del operador, persistido en un almacén durable.
package sesion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
	"github.com/jhoicas/consola-admin/internal/infrastructure/metrics"
	"github.com/jhoicas/consola-admin/pkg/jwt"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// Claves fijas del paquete de credenciales.
const (
	ClaveToken   = "mp1_token"
	ClaveUsuario = "mp1_user"
)

// Mensajes de error de inicio de sesión.
const (
	MsgCredencialesInvalidas = "Credenciales inválidas"
	MsgSinConexion           = "No se pudo conectar con el servidor"
	MsgTokenInvalido         = "Token de sesión inválido"
)

// Credenciales formulario de inicio de sesión.
type Credenciales struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrorLogin error de inicio de sesión con el mensaje para el operador.
type ErrorLogin struct {
	Mensaje string
	Err     error
}

func (e *ErrorLogin) Error() string { return e.Mensaje }
func (e *ErrorLogin) Unwrap() error { return e.Err }

// Store sesión del operador. Se inyecta en los consumidores; no hay instancia global.
type Store struct {
	almacen   ports.AlmacenSesion
	auth      ports.Autenticador
	validador *validacion.Validador
	secreto   string
	ahora     func() time.Time
	log       *logger.Logger

	mu          sync.RWMutex
	identidad   *entity.Identidad
	token       string
	ultimoError string
}

// Opcion configura el Store.
type Opcion func(*Store)

// ConSecreto activa la verificación de firma de los tokens (JWT_SECRET).
func ConSecreto(secreto string) Opcion {
	return func(s *Store) { s.secreto = secreto }
}

// ConReloj fija el reloj para el vencimiento de tokens.
func ConReloj(ahora func() time.Time) Opcion {
	return func(s *Store) { s.ahora = ahora }
}

// New construye el store sin sesión; llamar Restaurar para leer la persistida.
func New(almacen ports.AlmacenSesion, auth ports.Autenticador, val *validacion.Validador, log *logger.Logger, opts ...Opcion) *Store {
	s := &Store{
		almacen:   almacen,
		auth:      auth,
		validador: val,
		ahora:     time.Now,
		log:       log.Componente("sesion"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// Token bearer token vigente; implementa api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identidad copia de la identidad autenticada, nil si no hay sesión.
func (s *Store) Identidad() *entity.Identidad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identidad == nil {
		return nil
	}
	cp := *s.identidad
	cp.Permisos = append([]string(nil), s.identidad.Permisos...)
	return &cp
}

// Autenticado informa si hay sesión.
func (s *Store) Autenticado() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identidad != nil
}

// TienePermiso false sin sesión; si no, pertenencia al conjunto de permisos.
func (s *Store) TienePermiso(permiso string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identidad.TienePermiso(permiso)
}

// Error último error de inicio de sesión ("" si no hubo).
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ultimoError
}

// Actor email del operador para auditoría, o "Sistema" sin sesión.
func (s *Store) Actor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identidad == nil || s.identidad.Email == "" {
		return "Sistema"
	}
	return s.identidad.Email
}

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

// Restaurar lee el paquete de credenciales. Datos ilegibles o token vencido se descartan
// y el estado queda sin sesión; solo los errores del almacén se devuelven.
func (s *Store) Restaurar(ctx context.Context) error {
	token, okToken, err := s.almacen.Leer(ctx, ClaveToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("almacén de sesión ilegible, se descarta")
		s.descartar(ctx)
		return nil
	}
	usuario, okUsuario, err := s.almacen.Leer(ctx, ClaveUsuario)
	if err != nil {
		s.log.Warn().Err(err).Msg("almacén de sesión ilegible, se descarta")
		s.descartar(ctx)
		return nil
	}
	if !okToken || !okUsuario || token == "" {
		s.fijar(nil, "")
		return nil
	}

	var id entity.Identidad
	if err := json.Unmarshal([]byte(usuario), &id); err != nil {
		s.log.Warn().Err(err).Msg("identidad persistida corrupta, se descarta")
		s.descartar(ctx)
		return nil
	}
	if err := s.verificarToken(token); err != nil {
		s.log.Warn().Err(err).Msg("token persistido no válido, se descarta")
		s.descartar(ctx)
		return nil
	}
	if id.Permisos == nil {
		id.Permisos = []string{}
	}
	s.fijar(&id, token)
	return nil
}

// IniciarSesion valida el formulario, autentica y persiste. Sin reintentos.
func (s *Store) IniciarSesion(ctx context.Context, cred Credenciales) error {
	cred.Email = strings.TrimSpace(cred.Email)
	errores := s.validador.Validar(map[string]string{
		"email":    cred.Email,
		"password": cred.Password,
	}, validacion.CamposLogin())
	if err := domain.NuevoErrorValidacion(errores); err != nil {
		return err
	}

	token, id, err := s.auth.IniciarSesion(ctx, cred.Email, cred.Password)
	if err == nil {
		err = s.verificarToken(token)
		if err != nil {
			err = &ErrorLogin{Mensaje: MsgTokenInvalido, Err: fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)}
		}
	}
	if err != nil {
		return s.fallarLogin(err)
	}

	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("sesion: serializar identidad: %w", err)
	}
	// token e identidad juntos: un observador nunca ve uno sin el otro
	if err := s.almacen.Escribir(ctx, map[string]string{
		ClaveToken:   token,
		ClaveUsuario: string(raw),
	}); err != nil {
		return fmt.Errorf("sesion: guardar credenciales: %w", err)
	}

	s.mu.Lock()
	s.ultimoError = ""
	s.mu.Unlock()
	s.fijar(id, token)
	s.log.Info().Str("email", id.Email).Msg("sesión iniciada")
	return nil
}

// CerrarSesion borra el paquete de credenciales y resetea el estado.
func (s *Store) CerrarSesion(ctx context.Context) error {
	s.fijar(nil, "")
	if err := s.almacen.Borrar(ctx, ClaveToken, ClaveUsuario); err != nil {
		return fmt.Errorf("sesion: borrar credenciales: %w", err)
	}
	s.log.Info().Msg("sesión cerrada")
	return nil
}

// Vigilar re-ejecuta Restaurar ante cada cambio del almacén (otro proceso de consola
// inició o cerró sesión). Bloquea hasta que ctx termine.
func (s *Store) Vigilar(ctx context.Context) error {
	cambios, err := s.almacen.Observar(ctx)
	if err != nil {
		return fmt.Errorf("sesion: observar almacén: %w", err)
	}
	for range cambios {
		if err := s.Restaurar(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn().Err(err).Msg("no se pudo releer la sesión")
		}
	}
	return ctx.Err()
}

// ── Internos ──────────────────────────────────────────────────────────────────

func (s *Store) fijar(id *entity.Identidad, token string) {
	s.mu.Lock()
	s.identidad = id
	s.token = token
	s.mu.Unlock()
	if id != nil {
		metrics.SesionesActivas.Set(1)
	} else {
		metrics.SesionesActivas.Set(0)
	}
}

func (s *Store) descartar(ctx context.Context) {
	s.fijar(nil, "")
	if err := s.almacen.Borrar(ctx, ClaveToken, ClaveUsuario); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo borrar la sesión descartada")
	}
}

// verificarToken con secreto: firma y vigencia; sin secreto: solo exp si es un JWT.
func (s *Store) verificarToken(token string) error {
	if s.secreto != "" {
		_, err := jwt.Parse(s.secreto, token)
		return err
	}
	if jwt.Vencido(token, s.ahora()) {
		return errors.New("token vencido")
	}
	return nil
}

func (s *Store) fallarLogin(err error) error {
	var loginErr *ErrorLogin
	if !errors.As(err, &loginErr) {
		loginErr = &ErrorLogin{Mensaje: mensajeLogin(err), Err: err}
	}
	s.mu.Lock()
	s.ultimoError = loginErr.Mensaje
	s.mu.Unlock()
	s.fijar(nil, "")
	s.log.Warn().Err(err).Msg("inicio de sesión fallido")
	return loginErr
}

func mensajeLogin(err error) string {
	var httpErr ports.ErrorHTTP
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgCredencialesInvalidas
	case errors.As(err, &httpErr):
		return httpErr.Error()
	default:
		return MsgSinConexion
	}
}
