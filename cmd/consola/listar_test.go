package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

func TestImprimirListado(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imprimirListado(&buf, listadoDePrueba()))

	out := buf.String()
	assert.Contains(t, out, "ROLES")
	assert.Contains(t, out, "ACTIVOS (1)")
	assert.Contains(t, out, "INACTIVOS (0)")
	assert.Contains(t, out, "Administrador")
}

func TestPermisoVer(t *testing.T) {
	assert.Equal(t, entity.PermisoVerUsuarios, permisoVer("usuarios"))
	assert.Equal(t, entity.PermisoVerRoles, permisoVer("roles"))
	assert.Equal(t, entity.PermisoVerTiposDocumento, permisoVer("tipos-documento"))
	assert.Empty(t, permisoVer("otra"))
}

func listadoDePrueba() panel.Listado {
	return panel.Listado{
		Titulo:    "Roles",
		Columnas:  []string{"Nombre", "Descripción"},
		Activos:   [][]string{{"Administrador", "Acceso total"}},
		Inactivos: [][]string{},
	}
}
