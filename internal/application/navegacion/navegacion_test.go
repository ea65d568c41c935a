package navegacion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consola-admin/internal/application/navegacion"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

type sesionFija struct {
	id *entity.Identidad
}

func (s sesionFija) Identidad() *entity.Identidad { return s.id }

func (s sesionFija) TienePermiso(p string) bool { return s.id.TienePermiso(p) }

func TestEnlaces_FiltradosPorPermiso(t *testing.T) {
	nav := navegacion.New(sesionFija{id: &entity.Identidad{Permisos: []string{entity.PermisoVerRoles}}})
	enlaces := nav.Enlaces()
	require.Len(t, enlaces, 1)
	assert.Equal(t, "Roles", enlaces[0].Etiqueta)
	assert.Equal(t, navegacion.RutaRoles, enlaces[0].Ruta)

	todos := navegacion.New(sesionFija{id: &entity.Identidad{Permisos: entity.CatalogoPermisos()}})
	assert.Len(t, todos.Enlaces(), 3)

	sinSesion := navegacion.New(sesionFija{})
	assert.Empty(t, sinSesion.Enlaces())
}

func TestAcceso(t *testing.T) {
	sinSesion := navegacion.New(sesionFija{})
	assert.Equal(t, navegacion.Decision{Redireccion: navegacion.RutaLogin}, sinSesion.Acceso(navegacion.RutaUsuarios))
	assert.Equal(t, navegacion.Decision{Redireccion: navegacion.RutaLogin}, sinSesion.Acceso(navegacion.RutaInicio))
	assert.True(t, sinSesion.Acceso(navegacion.RutaLogin).Permitido)

	lector := navegacion.New(sesionFija{id: &entity.Identidad{Permisos: []string{entity.PermisoVerUsuarios}}})
	assert.True(t, lector.Acceso(navegacion.RutaUsuarios).Permitido)
	assert.True(t, lector.Acceso(navegacion.RutaInicio).Permitido)
	assert.Equal(t, navegacion.Decision{Redireccion: navegacion.RutaInicio}, lector.Acceso(navegacion.RutaTiposDocumento))
}

func TestBienvenida(t *testing.T) {
	casos := []struct {
		id       *entity.Identidad
		esperado string
	}{
		{&entity.Identidad{Nombres: "Ana", Apellidos: "Ruiz"}, "Ana Ruiz"},
		{&entity.Identidad{Nombres: "Ana"}, "Ana"},
		{&entity.Identidad{Apellidos: "Ruiz"}, "Usuario"},
		{nil, "Usuario"},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, navegacion.New(sesionFija{id: c.id}).Bienvenida())
	}
}

func TestBarra(t *testing.T) {
	id := &entity.Identidad{
		Nombres: "Ana", Apellidos: "Ruiz", Email: "ana@example.com",
		RolNombre: "Administrador", Permisos: []string{entity.PermisoVerUsuarios, entity.PermisoVerRoles},
	}
	barra := navegacion.New(sesionFija{id: id}).Barra()

	assert.Equal(t, navegacion.Titulo, barra.Titulo)
	require.NotNil(t, barra.Menu)
	assert.Equal(t, "Ana Ruiz", barra.Menu.NombreCompleto)
	assert.Equal(t, "Administrador", barra.Menu.Rol)
	assert.Equal(t, "ana@example.com", barra.Menu.Email)
	assert.Len(t, barra.Enlaces, 2)

	require.Len(t, barra.Modulos, 3)
	assert.Equal(t, "Gestión de Usuarios", barra.Modulos[0].Titulo)
	assert.True(t, barra.Modulos[0].Permitido)
	assert.False(t, barra.Modulos[2].Permitido)

	assert.Nil(t, navegacion.New(sesionFija{}).Menu())
}

func TestPermisoRuta(t *testing.T) {
	assert.Equal(t, entity.PermisoVerTiposDocumento, navegacion.PermisoRuta(navegacion.RutaTiposDocumento))
	assert.Empty(t, navegacion.PermisoRuta(navegacion.RutaInicio))
}
