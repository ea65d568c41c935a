package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/infrastructure/api"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

func servidor(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, logger.Nop())
}

func TestDecodificarLista(t *testing.T) {
	casos := []struct {
		nombre string
		raw    string
		total  int
	}{
		{"arreglo", `[{"id":"1"},{"id":2}]`, 2},
		{"envuelto", `{"usuarios":[{"id":"1"}]}`, 1},
		{"data", `{"data":[{"id":"1"},{"id":"2"},{"id":"3"}]}`, 3},
		{"null", `null`, 0},
		{"objeto sin lista", `{"total":0}`, 0},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			lista, err := decodificarLista[entity.Usuario](json.RawMessage(c.raw), "usuarios")
			require.NoError(t, err)
			assert.Len(t, lista, c.total)
			assert.NotNil(t, lista)
		})
	}

	_, err := decodificarLista[entity.Usuario](json.RawMessage(`"texto"`), "usuarios")
	assert.Error(t, err)
}

func TestColeccion_ListarUsuariosEnvueltos(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usuarios", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"usuarios":[{"id":5,"nombres":"Ana","estado":false}]}`))
	})

	lista, err := NewUsuarioRepository(c).Listar(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, entity.ID("5"), lista[0].ID)
	assert.False(t, lista[0].Activo())
}

func TestColeccion_ListarSoloActivos(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/roles", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("estado"))
		_, _ = w.Write([]byte(`[{"id":"r1","nombre":"Admin","permisos":["ver_roles"]}]`))
	})

	lista, err := NewRolRepository(c).Listar(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.True(t, lista[0].Activo(), "sin estado cuenta como activo")
}

func TestColeccion_ActualizarUsaPUT(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/document-types/d1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["estado"])
		assert.Equal(t, "CC", body["codigo"])
		w.WriteHeader(http.StatusOK)
	})

	td := entity.TipoDocumento{ID: "d1", Codigo: "CC", Nombre: "Cédula", Estado: entity.Estado(false)}
	require.NoError(t, NewTipoDocumentoRepository(c).Actualizar(context.Background(), td.ID, td))
}

func TestColeccion_ActualizarEscapaElID(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/roles/a%2Fb%20c%3Fx", r.URL.EscapedPath())
		assert.Empty(t, r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
	})

	rol := entity.Rol{ID: "a/b c?x", Nombre: "Soporte"}
	require.NoError(t, NewRolRepository(c).Actualizar(context.Background(), rol.ID, rol))
}

func TestColeccion_CrearPropagaConflicto(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Número de documento duplicado"}`))
	})

	err := NewUsuarioRepository(c).Crear(context.Background(), entity.Usuario{Nombres: "Ana"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthRepo_IniciarSesion(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req.Email)
		_, _ = w.Write([]byte(`{"token":"tk","usuario":{"id":1,"nombres":"Ana","apellidos":"Ruiz","email":"ana@example.com",
			"rol":{"id":"r1","nombre":"Administrador","permisos":["ver_usuarios"]}}}`))
	})

	token, id, err := NewAuthRepository(c).IniciarSesion(context.Background(), "ana@example.com", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "tk", token)
	assert.Equal(t, entity.ID("1"), id.ID)
	assert.Equal(t, entity.ID("r1"), id.RolID)
	assert.Equal(t, "Administrador", id.RolNombre)
	assert.True(t, id.TienePermiso(entity.PermisoVerUsuarios))
}

func TestAuthRepo_RespuestaIncompleta(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tk"}`))
	})

	_, _, err := NewAuthRepository(c).IniciarSesion(context.Background(), "a@b.co", "secreto")
	assert.ErrorIs(t, err, ErrRespuestaLogin)
}

func TestAuthRepo_CredencialesInvalidas(t *testing.T) {
	c := servidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := NewAuthRepository(c).IniciarSesion(context.Background(), "a@b.co", "secreto")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
