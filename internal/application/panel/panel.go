// Package panel ciclo de vida de los paneles de entidades: listado particionado por estado,
// formulario de creación/edición, detección de duplicados inactivos, reactivación y
// borrado lógico. Toda escritura termina con una recarga completa de la colección.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/repository"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
	"github.com/jhoicas/consola-admin/internal/infrastructure/metrics"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// Estado del panel.
type Estado string

const (
	EstadoViendo               Estado = "viendo"
	EstadoEditandoNuevo        Estado = "editando-nuevo"
	EstadoEditandoExistente    Estado = "editando-existente"
	EstadoConfirmandoDuplicado Estado = "confirmando-duplicado"
)

// Entidad registro administrable desde un panel.
type Entidad interface {
	entity.Registro
	Campos() map[string]string
}

// Vista instantánea del panel.
type Vista[T Entidad] struct {
	Estado      Estado                          `json:"estado"`
	Activos     []T                             `json:"activos"`
	Inactivos   []T                             `json:"inactivos"`
	Formulario  *T                              `json:"formulario,omitempty"`
	Duplicado   *T                              `json:"duplicado,omitempty"`
	Referencias map[string]map[entity.ID]string `json:"referencias,omitempty"`
}

// Resultado de Guardar/Reactivar.
type Resultado[T Entidad] struct {
	Estado    Estado            `json:"estado"`
	Errores   map[string]string `json:"errores,omitempty"`
	Duplicado *T                `json:"duplicado,omitempty"`
	Guardado  bool              `json:"guardado"`
}

// ErrorOperacion fallo de una escritura en el backend, con el mensaje para el operador.
type ErrorOperacion struct {
	Mensaje string
	Err     error
}

func (e *ErrorOperacion) Error() string { return e.Mensaje }
func (e *ErrorOperacion) Unwrap() error { return e.Err }

// Panel motor genérico del ciclo de vida de una entidad. Seguro para uso concurrente;
// las mutaciones son de a una (ErrOcupado mientras otra está en curso).
type Panel[T Entidad] struct {
	esp   Especificacion[T]
	repo  repository.Repositorio[T]
	val   *validacion.Validador
	actor func() string
	ahora func() time.Time
	log   *logger.Logger

	ocupado atomic.Bool

	mu         sync.RWMutex
	cargado    bool
	activos    []T
	inactivos  []T
	estado     Estado
	form       T
	editandoID entity.ID
	duplicado  *T
}

// Opcion configura el Panel.
type Opcion func(*opciones)

type opciones struct {
	ahora func() time.Time
}

// ConReloj fija el reloj usado para los sellos de tiempo.
func ConReloj(ahora func() time.Time) Opcion {
	return func(o *opciones) { o.ahora = ahora }
}

// New construye un panel. actor devuelve el usuario de auditoría (email o "Sistema").
func New[T Entidad](esp Especificacion[T], repo repository.Repositorio[T], val *validacion.Validador, actor func() string, log *logger.Logger, opts ...Opcion) *Panel[T] {
	o := opciones{ahora: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return &Panel[T]{
		esp:    esp,
		repo:   repo,
		val:    val,
		actor:  actor,
		ahora:  o.ahora,
		log:    log.Componente("panel_" + esp.Entidad),
		estado: EstadoViendo,
	}
}

// Especificacion devuelve la configuración del panel.
func (p *Panel[T]) Especificacion() Especificacion[T] { return p.esp }

// ── Lectura ───────────────────────────────────────────────────────────────────

// Cargar trae la colección completa y la particiona por estado (montaje del panel).
func (p *Panel[T]) Cargar(ctx context.Context) (Vista[T], error) {
	if err := p.recargar(ctx); err != nil {
		p.contar("cargar", "error")
		return Vista[T]{}, err
	}
	p.contar("cargar", "ok")
	return p.Vista(), nil
}

// Vista instantánea sin ir al backend.
func (p *Panel[T]) Vista() Vista[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v := Vista[T]{
		Estado:    p.estado,
		Activos:   p.clonarLista(p.activos),
		Inactivos: p.clonarLista(p.inactivos),
	}
	if p.duplicado != nil {
		d := p.clonar(*p.duplicado)
		v.Duplicado = &d
	}
	if p.estado != EstadoViendo {
		f := p.clonar(p.form)
		v.Formulario = &f
	}
	if p.esp.Referencias != nil {
		v.Referencias = p.esp.Referencias()
	}
	return v
}

// Activos registros activos del último listado.
func (p *Panel[T]) Activos() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clonarLista(p.activos)
}

// Inactivos registros inactivos del último listado.
func (p *Panel[T]) Inactivos() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clonarLista(p.inactivos)
}

// Estado actual del panel.
func (p *Panel[T]) Estado() Estado {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.estado
}

// Formulario valores del formulario abierto.
func (p *Panel[T]) Formulario() (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clonar(p.form), p.estado != EstadoViendo
}

// ── Formulario ────────────────────────────────────────────────────────────────

// AbrirCrear abre el formulario vacío.
func (p *Panel[T]) AbrirCrear() error {
	if !p.ocupado.CompareAndSwap(false, true) {
		return domain.ErrOcupado
	}
	defer p.ocupado.Store(false)
	p.mu.Lock()
	defer p.mu.Unlock()
	var vacio T
	p.abrirLocked(EstadoEditandoNuevo, "", vacio)
	return nil
}

// AbrirEditar abre el formulario con los valores del registro activo id.
func (p *Panel[T]) AbrirEditar(ctx context.Context, id entity.ID) (T, error) {
	var vacio T
	if !p.ocupado.CompareAndSwap(false, true) {
		return vacio, domain.ErrOcupado
	}
	defer p.ocupado.Store(false)
	if err := p.asegurarCargado(ctx); err != nil {
		return vacio, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	reg, err := p.activoLocked(id)
	if err != nil {
		return vacio, err
	}
	p.abrirLocked(EstadoEditandoExistente, id, reg)
	return p.clonar(reg), nil
}

// Cerrar abandona el formulario sin guardar.
func (p *Panel[T]) Cerrar() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cerrarLocked()
}

// CancelarDuplicado vuelve a editando-nuevo conservando el formulario.
func (p *Panel[T]) CancelarDuplicado() error {
	if !p.ocupado.CompareAndSwap(false, true) {
		return domain.ErrOcupado
	}
	defer p.ocupado.Store(false)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.estado != EstadoConfirmandoDuplicado {
		return domain.ErrSinDuplicado
	}
	p.estado = EstadoEditandoNuevo
	p.duplicado = nil
	return nil
}

// ── Mutaciones ────────────────────────────────────────────────────────────────

// Guardar valida y crea o actualiza según el formulario abierto. Al crear, si existe
// un registro inactivo con la misma clave natural no se crea nada: el panel pasa a
// confirmando-duplicado y se devuelve ErrDuplicate con el registro inactivo.
func (p *Panel[T]) Guardar(ctx context.Context, form T) (Resultado[T], error) {
	if !p.ocupado.CompareAndSwap(false, true) {
		p.contar("guardar", "ocupado")
		return Resultado[T]{Estado: p.Estado()}, domain.ErrOcupado
	}
	defer p.ocupado.Store(false)

	if err := p.asegurarCargado(ctx); err != nil {
		return Resultado[T]{Estado: p.Estado()}, err
	}

	p.mu.RLock()
	estado, id := p.estado, p.editandoID
	p.mu.RUnlock()
	if estado != EstadoEditandoNuevo && estado != EstadoEditandoExistente {
		return Resultado[T]{Estado: estado}, domain.ErrSinFormulario
	}
	return p.guardar(ctx, estado == EstadoEditandoNuevo, id, form)
}

// GuardarNuevo abre el formulario de creación y lo guarda sin soltar el turno del
// panel: ninguna otra operación puede cambiar el modo entre la apertura y el envío.
func (p *Panel[T]) GuardarNuevo(ctx context.Context, form T) (Resultado[T], error) {
	if !p.ocupado.CompareAndSwap(false, true) {
		p.contar("guardar", "ocupado")
		return Resultado[T]{Estado: p.Estado()}, domain.ErrOcupado
	}
	defer p.ocupado.Store(false)

	if err := p.asegurarCargado(ctx); err != nil {
		return Resultado[T]{Estado: p.Estado()}, err
	}
	p.mu.Lock()
	p.abrirLocked(EstadoEditandoNuevo, "", form)
	p.mu.Unlock()
	return p.guardar(ctx, true, "", form)
}

// GuardarEdicion abre el registro activo id, aplica los cambios sobre una copia de sus
// valores actuales y guarda, todo en un mismo turno. Si aplicar falla el formulario
// se cierra y se devuelve ese error.
func (p *Panel[T]) GuardarEdicion(ctx context.Context, id entity.ID, aplicar func(*T) error) (Resultado[T], error) {
	if !p.ocupado.CompareAndSwap(false, true) {
		p.contar("guardar", "ocupado")
		return Resultado[T]{Estado: p.Estado()}, domain.ErrOcupado
	}
	defer p.ocupado.Store(false)

	if err := p.asegurarCargado(ctx); err != nil {
		return Resultado[T]{Estado: p.Estado()}, err
	}
	p.mu.Lock()
	reg, err := p.activoLocked(id)
	if err != nil {
		estado := p.estado
		p.mu.Unlock()
		return Resultado[T]{Estado: estado}, err
	}
	p.abrirLocked(EstadoEditandoExistente, id, reg)
	p.mu.Unlock()

	form := p.clonar(reg)
	if err := aplicar(&form); err != nil {
		p.Cerrar()
		return Resultado[T]{Estado: EstadoViendo}, err
	}
	return p.guardar(ctx, false, id, form)
}

// guardar requiere el turno del panel (ocupado) y el listado cargado.
func (p *Panel[T]) guardar(ctx context.Context, creando bool, id entity.ID, form T) (Resultado[T], error) {
	estado := EstadoEditandoExistente
	if creando {
		estado = EstadoEditandoNuevo
	}

	p.mu.Lock()
	p.form = p.clonar(form)

	if errores := p.validar(form, creando); len(errores) > 0 {
		p.mu.Unlock()
		p.contar("guardar", "invalido")
		return Resultado[T]{Estado: estado, Errores: errores}, domain.NuevoErrorValidacion(errores)
	}

	var base T
	if creando {
		if dup, ok := p.buscarDuplicado(form); ok {
			p.estado = EstadoConfirmandoDuplicado
			p.duplicado = &dup
			p.mu.Unlock()
			p.contar("guardar", "duplicado")
			res := p.clonar(dup)
			return Resultado[T]{Estado: EstadoConfirmandoDuplicado, Duplicado: &res}, domain.ErrDuplicate
		}
	} else {
		reg, err := p.activoLocked(id)
		if err != nil {
			p.mu.Unlock()
			return Resultado[T]{Estado: estado}, err
		}
		base = reg
	}
	p.mu.Unlock()

	var err error
	if creando {
		err = p.repo.Crear(ctx, p.esp.Preparar(form, p.sello(entity.AccionCrear, true)))
	} else {
		err = p.repo.Actualizar(ctx, id, p.esp.Preparar(p.esp.Fusionar(base, form), p.sello(entity.AccionEditar, true)))
	}
	if err != nil {
		p.contar("guardar", "error")
		p.log.Warn().Err(err).Str("id", id.String()).Msg("no se pudo guardar")
		return Resultado[T]{Estado: estado}, p.errorOperacion("Error al guardar "+p.esp.Nombre, err)
	}

	p.contar("guardar", "ok")
	return p.finalizar(ctx)
}

// Reactivar confirma el duplicado: fusiona el formulario sobre el registro inactivo y lo activa.
func (p *Panel[T]) Reactivar(ctx context.Context) (Resultado[T], error) {
	if !p.ocupado.CompareAndSwap(false, true) {
		p.contar("reactivar", "ocupado")
		return Resultado[T]{Estado: p.Estado()}, domain.ErrOcupado
	}
	defer p.ocupado.Store(false)

	p.mu.RLock()
	estado, form, dup := p.estado, p.form, p.duplicado
	p.mu.RUnlock()
	if estado != EstadoConfirmandoDuplicado || dup == nil {
		return Resultado[T]{Estado: estado}, domain.ErrSinDuplicado
	}

	id := (*dup).Identificador()
	payload := p.esp.Preparar(p.esp.Fusionar(*dup, form), p.sello(entity.AccionReactivar, true))
	if err := p.repo.Actualizar(ctx, id, payload); err != nil {
		p.contar("reactivar", "error")
		p.log.Warn().Err(err).Str("id", id.String()).Msg("no se pudo reactivar")
		res := p.clonar(*dup)
		return Resultado[T]{Estado: estado, Duplicado: &res}, p.errorOperacion("Error al reactivar "+p.esp.Nombre, err)
	}

	p.contar("reactivar", "ok")
	return p.finalizar(ctx)
}

// Eliminar borrado lógico (estado=false) del registro activo id, previa confirmación.
func (p *Panel[T]) Eliminar(ctx context.Context, id entity.ID, confirmar ports.Confirmacion) error {
	return p.cambiarEstado(ctx, "eliminar", id, false, confirmar)
}

// Restaurar reactiva (estado=true) el registro inactivo id, previa confirmación.
func (p *Panel[T]) Restaurar(ctx context.Context, id entity.ID, confirmar ports.Confirmacion) error {
	return p.cambiarEstado(ctx, "restaurar", id, true, confirmar)
}

func (p *Panel[T]) cambiarEstado(ctx context.Context, op string, id entity.ID, activar bool, confirmar ports.Confirmacion) error {
	if !p.ocupado.CompareAndSwap(false, true) {
		p.contar(op, "ocupado")
		return domain.ErrOcupado
	}
	defer p.ocupado.Store(false)

	if err := p.asegurarCargado(ctx); err != nil {
		return err
	}

	p.mu.RLock()
	origen := p.activos
	if activar {
		origen = p.inactivos
	}
	reg, ok := buscar(origen, id)
	reg = p.clonar(reg)
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s %s: %w", p.esp.Nombre, id, domain.ErrNotFound)
	}

	accion, mensaje, fallo := entity.AccionEliminar, p.esp.MsgEliminar, "Error al eliminar "+p.esp.Nombre
	if activar {
		accion, mensaje, fallo = entity.AccionReactivar, p.esp.MsgRestaurar, "Error al reactivar "+p.esp.Nombre
	}
	if confirmar == nil || !confirmar(mensaje) {
		p.contar(op, "cancelado")
		return domain.ErrNoConfirmado
	}

	if err := p.repo.Actualizar(ctx, id, p.esp.Preparar(reg, p.sello(accion, activar))); err != nil {
		p.contar(op, "error")
		p.log.Warn().Err(err).Str("id", id.String()).Msg("no se pudo cambiar el estado")
		return p.errorOperacion(fallo, err)
	}
	p.contar(op, "ok")
	return p.recargar(ctx)
}

// ── Internos ──────────────────────────────────────────────────────────────────

func (p *Panel[T]) recargar(ctx context.Context) error {
	if p.esp.AlCargar != nil {
		if err := p.esp.AlCargar(ctx); err != nil {
			p.log.Warn().Err(err).Msg("no se pudieron cargar las referencias")
		}
	}
	lista, err := p.repo.Listar(ctx, false)
	if err != nil {
		return fmt.Errorf("cargar %s: %w", p.esp.Entidad, err)
	}

	activos, inactivos := make([]T, 0, len(lista)), make([]T, 0)
	for _, r := range lista {
		if p.esp.Depurar != nil {
			r = p.esp.Depurar(r)
		}
		if r.Activo() {
			activos = append(activos, r)
		} else {
			inactivos = append(inactivos, r)
		}
	}

	p.mu.Lock()
	p.activos, p.inactivos, p.cargado = activos, inactivos, true
	p.mu.Unlock()
	return nil
}

func (p *Panel[T]) asegurarCargado(ctx context.Context) error {
	p.mu.RLock()
	cargado := p.cargado
	p.mu.RUnlock()
	if cargado {
		return nil
	}
	return p.recargar(ctx)
}

// finalizar tras una escritura exitosa: cierra el formulario y recarga.
func (p *Panel[T]) finalizar(ctx context.Context) (Resultado[T], error) {
	p.mu.Lock()
	p.cerrarLocked()
	p.mu.Unlock()
	if err := p.recargar(ctx); err != nil {
		return Resultado[T]{Estado: EstadoViendo, Guardado: true}, err
	}
	return Resultado[T]{Estado: EstadoViendo, Guardado: true}, nil
}

// abrirLocked fija el modo del formulario; el formulario nunca comparte memoria con la caché.
func (p *Panel[T]) abrirLocked(estado Estado, id entity.ID, form T) {
	p.estado = estado
	p.form = p.clonar(form)
	p.editandoID = id
	p.duplicado = nil
}

// activoLocked registro activo id (copia profunda) o ErrNotFound.
func (p *Panel[T]) activoLocked(id entity.ID) (T, error) {
	reg, ok := buscar(p.activos, id)
	if !ok {
		var vacio T
		return vacio, fmt.Errorf("%s %s: %w", p.esp.Nombre, id, domain.ErrNotFound)
	}
	return p.clonar(reg), nil
}

func (p *Panel[T]) clonar(r T) T {
	if p.esp.Clonar == nil {
		return r
	}
	return p.esp.Clonar(r)
}

func (p *Panel[T]) clonarLista(lista []T) []T {
	out := make([]T, len(lista))
	for i, r := range lista {
		out[i] = p.clonar(r)
	}
	return out
}

func (p *Panel[T]) cerrarLocked() {
	var vacio T
	p.estado = EstadoViendo
	p.form = vacio
	p.editandoID = ""
	p.duplicado = nil
}

func (p *Panel[T]) validar(form T, creando bool) map[string]string {
	errores := p.val.Validar(form.Campos(), p.esp.Campos(creando))
	if p.esp.ValidarExtra != nil {
		for campo, msg := range p.esp.ValidarExtra(p.val, form) {
			if _, ya := errores[campo]; !ya {
				errores[campo] = msg
			}
		}
	}
	return errores
}

// buscarDuplicado busca la clave natural del formulario entre los inactivos.
func (p *Panel[T]) buscarDuplicado(form T) (T, bool) {
	clave := p.esp.ClaveNatural(form)
	for _, r := range p.inactivos {
		if p.esp.ClaveNatural(r) == clave {
			return p.clonar(r), true
		}
	}
	var vacio T
	return vacio, false
}

func (p *Panel[T]) sello(accion entity.Accion, activo bool) entity.Sello {
	return entity.Sello{Accion: accion, Activo: activo, Actor: p.actor(), Momento: p.ahora()}
}

// errorOperacion usa el mensaje del backend si lo hay; si no, el genérico del panel.
func (p *Panel[T]) errorOperacion(generico string, err error) error {
	var httpErr ports.ErrorHTTP
	if errors.As(err, &httpErr) && httpErr.MensajeServidor() != "" {
		return &ErrorOperacion{Mensaje: httpErr.MensajeServidor(), Err: err}
	}
	return &ErrorOperacion{Mensaje: generico, Err: err}
}

func (p *Panel[T]) contar(op, resultado string) {
	metrics.PanelOperaciones.WithLabelValues(p.esp.Entidad, op, resultado).Inc()
}

func buscar[T Entidad](lista []T, id entity.ID) (T, bool) {
	for _, r := range lista {
		if r.Identificador() == id {
			return r, true
		}
	}
	var vacio T
	return vacio, false
}
