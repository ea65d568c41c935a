// Package navegacion barra de navegación, menú de sesión, inicio y guardia de rutas.
package navegacion

import (
	"strings"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// Rutas de la consola.
const (
	RutaLogin          = "/login"
	RutaInicio         = "/home"
	RutaUsuarios       = "/users"
	RutaRoles          = "/roles"
	RutaTiposDocumento = "/document-types"
)

// Titulo nombre de la aplicación en la barra.
const Titulo = "MICROPROYECTO"

// BienvenidaPorDefecto cuando la identidad no trae nombres.
const BienvenidaPorDefecto = "Usuario"

// Sesion lo que la navegación necesita de la sesión.
type Sesion interface {
	Identidad() *entity.Identidad
	TienePermiso(permiso string) bool
}

// Enlace entrada de la barra de navegación.
type Enlace struct {
	Etiqueta string `json:"etiqueta"`
	Ruta     string `json:"ruta"`
	Permiso  string `json:"permiso"`
}

// Modulo tarjeta de la página de inicio.
type Modulo struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Ruta        string `json:"ruta"`
	Permitido   bool   `json:"permitido"`
}

// MenuSesion datos del menú de perfil.
type MenuSesion struct {
	NombreCompleto string `json:"nombreCompleto"`
	Rol            string `json:"rol"`
	Email          string `json:"email"`
	Salir          string `json:"salir"`
}

// Barra todo lo que se muestra alrededor de las páginas privadas.
type Barra struct {
	Titulo     string      `json:"titulo"`
	Enlaces    []Enlace    `json:"enlaces"`
	Menu       *MenuSesion `json:"menu,omitempty"`
	Bienvenida string      `json:"bienvenida"`
	Modulos    []Modulo    `json:"modulos"`
}

// Decision resultado de la guardia de rutas.
type Decision struct {
	Permitido   bool   `json:"permitido"`
	Redireccion string `json:"redireccion,omitempty"`
}

var enlaces = []Enlace{
	{Etiqueta: "Usuarios", Ruta: RutaUsuarios, Permiso: entity.PermisoVerUsuarios},
	{Etiqueta: "Roles", Ruta: RutaRoles, Permiso: entity.PermisoVerRoles},
	{Etiqueta: "Tipos Documento", Ruta: RutaTiposDocumento, Permiso: entity.PermisoVerTiposDocumento},
}

var modulos = []struct {
	titulo, descripcion, ruta string
}{
	{"Gestión de Usuarios", "Crear, editar, ver y eliminar usuarios del sistema", RutaUsuarios},
	{"Gestión de Roles", "Administrar roles y permisos de la aplicación", RutaRoles},
	{"Tipos de Documento", "Gestionar tipos de documento de identidad", RutaTiposDocumento},
}

// Shell navegación ligada a una sesión.
type Shell struct {
	sesion Sesion
}

// New construye la navegación sobre la sesión inyectada.
func New(s Sesion) *Shell {
	return &Shell{sesion: s}
}

// Enlaces solo los que la sesión permite.
func (s *Shell) Enlaces() []Enlace {
	out := make([]Enlace, 0, len(enlaces))
	for _, e := range enlaces {
		if s.sesion.TienePermiso(e.Permiso) {
			out = append(out, e)
		}
	}
	return out
}

// Menu nil sin sesión.
func (s *Shell) Menu() *MenuSesion {
	id := s.sesion.Identidad()
	if id == nil {
		return nil
	}
	return &MenuSesion{
		NombreCompleto: id.NombreCompleto(),
		Rol:            id.RolNombre,
		Email:          id.Email,
		Salir:          "Cerrar sesión",
	}
}

// Bienvenida "nombres apellidos", o "nombres", o "Usuario".
func (s *Shell) Bienvenida() string {
	id := s.sesion.Identidad()
	if id == nil {
		return BienvenidaPorDefecto
	}
	nombres, apellidos := strings.TrimSpace(id.Nombres), strings.TrimSpace(id.Apellidos)
	switch {
	case nombres != "" && apellidos != "":
		return nombres + " " + apellidos
	case nombres != "":
		return nombres
	default:
		return BienvenidaPorDefecto
	}
}

// Modulos tarjetas de inicio; Permitido indica si la guardia dejaría entrar.
func (s *Shell) Modulos() []Modulo {
	out := make([]Modulo, len(modulos))
	for i, m := range modulos {
		out[i] = Modulo{
			Titulo:      m.titulo,
			Descripcion: m.descripcion,
			Ruta:        m.ruta,
			Permitido:   s.Acceso(m.ruta).Permitido,
		}
	}
	return out
}

// Barra composición completa.
func (s *Shell) Barra() Barra {
	return Barra{
		Titulo:     Titulo,
		Enlaces:    s.Enlaces(),
		Menu:       s.Menu(),
		Bienvenida: s.Bienvenida(),
		Modulos:    s.Modulos(),
	}
}

// PermisoRuta permiso requerido por una ruta privada ("" si solo exige sesión).
func PermisoRuta(ruta string) string {
	for _, e := range enlaces {
		if e.Ruta == ruta {
			return e.Permiso
		}
	}
	return ""
}

// Acceso sin sesión redirige a /login; sin el permiso de la ruta redirige a /home.
func (s *Shell) Acceso(ruta string) Decision {
	if ruta == RutaLogin {
		return Decision{Permitido: true}
	}
	if s.sesion.Identidad() == nil {
		return Decision{Redireccion: RutaLogin}
	}
	if p := PermisoRuta(ruta); p != "" && !s.sesion.TienePermiso(p) {
		return Decision{Redireccion: RutaInicio}
	}
	return Decision{Permitido: true}
}
