package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consola-admin/internal/application/dto"
	"github.com/jhoicas/consola-admin/internal/application/navegacion"
	"github.com/jhoicas/consola-admin/internal/application/panel"
	"github.com/jhoicas/consola-admin/internal/application/sesion"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/domain/validacion"
	"github.com/jhoicas/consola-admin/internal/infrastructure/almacen"
	"github.com/jhoicas/consola-admin/internal/infrastructure/api"
	"github.com/jhoicas/consola-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/consola-admin/internal/infrastructure/rest"
	apphttp "github.com/jhoicas/consola-admin/internal/interfaces/http"
	"github.com/jhoicas/consola-admin/internal/testutil"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminEmail    = "admin@example.com"
	lectorEmail   = "lector@example.com"
	testPassword  = "secreto1"
	testServicio  = "consola-test"
	jsonMediaType = "application/json"
)

type entorno struct {
	app     *fiber.App
	backend *testutil.Backend
	cc      entity.ID
}

// nuevoEntorno consola completa contra el backend en memoria: un administrador con
// todos los permisos, un lector con ver_usuarios y un tipo de documento CC inactivo.
func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	b := testutil.NuevoBackend(t)
	admin := b.SembrarRol(entity.Rol{Nombre: "Administrador", Permisos: entity.CatalogoPermisos()})
	lector := b.SembrarRol(entity.Rol{Nombre: "Lector", Permisos: []string{entity.PermisoVerUsuarios}})
	ti := b.SembrarTipoDocumento(entity.TipoDocumento{Codigo: "TI", Nombre: "Tarjeta de identidad"})
	cc := b.SembrarTipoDocumento(entity.TipoDocumento{Codigo: "CC", Nombre: "Cédula", Estado: entity.Estado(false)})
	b.SembrarUsuario(entity.Usuario{
		Nombres: "Ana", Apellidos: "Ruiz", Email: adminEmail, Password: testPassword,
		RolID: admin, TipoDocumentoID: ti, NumeroDocumento: "12345678", Genero: "Femenino",
		Telefono: "3001234567", FechaNacimiento: "1990-01-01",
	})
	b.SembrarUsuario(entity.Usuario{
		Nombres: "Luis", Apellidos: "Mora", Email: lectorEmail, Password: testPassword,
		RolID: lector, TipoDocumentoID: ti, NumeroDocumento: "87654321", Genero: "Masculino",
		Telefono: "3007654321", FechaNacimiento: "1985-05-05",
	})

	log := logger.Nop()
	val := validacion.New()
	cliente := api.New(b.URL, log)
	store := sesion.New(almacen.NewMemoria(), rest.NewAuthRepository(cliente), val, log,
		sesion.ConSecreto(testutil.SecretoJWT))
	cliente.SetTokens(store)

	refs := panel.NuevasReferencias(rest.NewRolRepository(cliente), rest.NewTipoDocumentoRepository(cliente))
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Servicio:       testServicio,
		Sesion:         store,
		Navegacion:     navegacion.New(store),
		Usuarios:       panel.New[entity.Usuario](panel.EspecificacionUsuarios(refs), rest.NewUsuarioRepository(cliente), val, store.Actor, log),
		Roles:          panel.New[entity.Rol](panel.EspecificacionRoles(), rest.NewRolRepository(cliente), val, store.Actor, log),
		TiposDocumento: panel.New[entity.TipoDocumento](panel.EspecificacionTiposDocumento(), rest.NewTipoDocumentoRepository(cliente), val, store.Actor, log),
		Listados:       pdf.NewMarotoListadoGenerator(),
	})
	return &entorno{app: app, backend: b, cc: cc}
}

func (e *entorno) hacer(t *testing.T, metodo, ruta string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(metodo, ruta, rdr)
	if body != nil {
		req.Header.Set("Content-Type", jsonMediaType)
	}
	resp, err := e.app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func (e *entorno) login(t *testing.T, email string) {
	t.Helper()
	resp := e.hacer(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Email: email, Password: testPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "el login de prueba debe funcionar")
}

func leer[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y navegación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	e := nuevoEntorno(t)
	resp := e.hacer(t, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	h := leer[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, testServicio, h.Service)
	assert.False(t, h.Autenticado)
}

func TestMetrics(t *testing.T) {
	e := nuevoEntorno(t)
	resp := e.hacer(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "consola_session_authenticated")
}

func TestRutasProtegidas_SinSesion(t *testing.T) {
	e := nuevoEntorno(t)
	for _, ruta := range []string{"/api/navegacion", "/api/usuarios", "/api/roles", "/api/tipos-documento"} {
		resp := e.hacer(t, http.MethodGet, ruta, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, ruta)
		assert.Equal(t, apphttp.CodeSinSesion, leer[dto.ErrorResponse](t, resp).Code, ruta)
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	e := nuevoEntorno(t)
	resp := e.hacer(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Email: adminEmail, Password: "incorrecta"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeUnauthorized, body.Code)
	assert.Equal(t, "Credenciales inválidas", body.Message)

	estado := leer[dto.SesionResponse](t, e.hacer(t, http.MethodGet, "/api/sesion", nil))
	assert.False(t, estado.Autenticado)
	assert.Equal(t, "Credenciales inválidas", estado.Error)
}

func TestLogin_FormularioInvalidoNoLlegaAlBackend(t *testing.T) {
	e := nuevoEntorno(t)
	resp := e.hacer(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Email: "no-es-email", Password: ""})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Campos, "email")
	assert.Contains(t, body.Campos, "password")
	assert.Zero(t, e.backend.Llamadas(http.MethodPost, "/auth/login"))
}

func TestLogin_NavegacionYLogout(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	estado := leer[dto.SesionResponse](t, e.hacer(t, http.MethodGet, "/api/sesion", nil))
	require.True(t, estado.Autenticado)
	assert.Equal(t, "Administrador", estado.Usuario.RolNombre)

	barra := leer[navegacion.Barra](t, e.hacer(t, http.MethodGet, "/api/navegacion", nil))
	assert.Equal(t, navegacion.Titulo, barra.Titulo)
	assert.Len(t, barra.Enlaces, 3)
	require.NotNil(t, barra.Menu)
	assert.Equal(t, "Ana Ruiz", barra.Menu.NombreCompleto)

	permisos := leer[dto.PermisosResponse](t, e.hacer(t, http.MethodGet, "/api/permisos", nil))
	assert.ElementsMatch(t, entity.CatalogoPermisos(), permisos.Sesion)

	resp := e.hacer(t, http.MethodPost, "/api/sesion/logout", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, leer[dto.SesionResponse](t, resp).Autenticado)
	assert.Equal(t, fiber.StatusUnauthorized, e.hacer(t, http.MethodGet, "/api/navegacion", nil).StatusCode)
}

func TestAcceso(t *testing.T) {
	e := nuevoEntorno(t)

	d := leer[navegacion.Decision](t, e.hacer(t, http.MethodGet, "/api/navegacion/acceso?ruta=/users", nil))
	assert.False(t, d.Permitido)
	assert.Equal(t, navegacion.RutaLogin, d.Redireccion)

	e.login(t, lectorEmail)
	d = leer[navegacion.Decision](t, e.hacer(t, http.MethodGet, "/api/navegacion/acceso?ruta=/users", nil))
	assert.True(t, d.Permitido)
	d = leer[navegacion.Decision](t, e.hacer(t, http.MethodGet, "/api/navegacion/acceso?ruta=/roles", nil))
	assert.False(t, d.Permitido)

	assert.Equal(t, fiber.StatusBadRequest, e.hacer(t, http.MethodGet, "/api/navegacion/acceso", nil).StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Paneles
// ──────────────────────────────────────────────────────────────────────────────

type vistaTipos = panel.Vista[entity.TipoDocumento]

func TestPanel_ListarParticiona(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	resp := e.hacer(t, http.MethodGet, "/api/tipos-documento", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := leer[vistaTipos](t, resp)
	require.Len(t, v.Activos, 1)
	require.Len(t, v.Inactivos, 1)
	assert.Equal(t, "TI", v.Activos[0].Codigo)
	assert.Equal(t, "CC", v.Inactivos[0].Codigo)
}

func TestPanel_PermisoRequerido(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, lectorEmail)

	assert.Equal(t, fiber.StatusOK, e.hacer(t, http.MethodGet, "/api/usuarios", nil).StatusCode)

	resp := e.hacer(t, http.MethodPost, "/api/usuarios", map[string]any{"nombres": "X"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeForbidden, leer[dto.ErrorResponse](t, resp).Code)

	assert.Equal(t, fiber.StatusForbidden, e.hacer(t, http.MethodGet, "/api/roles", nil).StatusCode)
}

func TestPanel_CrearInvalido(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	resp := e.hacer(t, http.MethodPost, "/api/tipos-documento", map[string]any{"codigo": "", "nombre": "X"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Equal(t, "Código es requerido", body.Campos["codigo"])
	assert.Equal(t, "Nombre debe tener mínimo 2 caracteres", body.Campos["nombre"])
	assert.Zero(t, e.backend.Llamadas(http.MethodPost, "/document-types"))
}

func TestPanel_DuplicadoYReactivacion(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	resp := e.hacer(t, http.MethodPost, "/api/tipos-documento", map[string]any{"codigo": " cc ", "nombre": "Cédula de ciudadanía"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeDuplicate, body.Code)
	dup, ok := body.Duplicado.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(e.cc), dup["id"])
	assert.Zero(t, e.backend.Llamadas(http.MethodPost, "/document-types"), "un duplicado no se crea")

	resp = e.hacer(t, http.MethodPost, "/api/tipos-documento/reactivacion", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := leer[vistaTipos](t, resp)
	assert.Equal(t, panel.EstadoViendo, v.Estado)
	assert.Len(t, v.Activos, 2)
	assert.Empty(t, v.Inactivos)

	for _, r := range e.backend.Registros("document-types") {
		if r["id"] == string(e.cc) {
			assert.Equal(t, true, r["estado"])
			assert.Equal(t, "Cédula de ciudadanía", r["nombre"])
			assert.Equal(t, string(entity.AccionReactivar), r["tipoAccion"])
			assert.Equal(t, adminEmail, r["usuarioAccion"])
		}
	}
}

func TestPanel_CancelarDuplicado(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	assert.Equal(t, fiber.StatusConflict, e.hacer(t, http.MethodDelete, "/api/tipos-documento/reactivacion", nil).StatusCode)

	resp := e.hacer(t, http.MethodPost, "/api/tipos-documento", map[string]any{"codigo": "CC", "nombre": "Cédula"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = e.hacer(t, http.MethodDelete, "/api/tipos-documento/reactivacion", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, panel.EstadoEditandoNuevo, leer[vistaTipos](t, resp).Estado)

	assert.Equal(t, fiber.StatusNoContent, e.hacer(t, http.MethodDelete, "/api/tipos-documento/formulario", nil).StatusCode)
	assert.Equal(t, panel.EstadoViendo, leer[vistaTipos](t, e.hacer(t, http.MethodGet, "/api/tipos-documento/vista", nil)).Estado)
}

func TestPanel_EditarConservaCamposOmitidos(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	v := leer[vistaTipos](t, e.hacer(t, http.MethodGet, "/api/tipos-documento", nil))
	require.Len(t, v.Activos, 1)
	id := v.Activos[0].ID

	resp := e.hacer(t, http.MethodPut, "/api/tipos-documento/"+id.String(), map[string]any{"nombre": "Tarjeta de Identidad"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v = leer[vistaTipos](t, resp)
	require.Len(t, v.Activos, 1)
	assert.Equal(t, "TI", v.Activos[0].Codigo)
	assert.Equal(t, "Tarjeta de Identidad", v.Activos[0].Nombre)
	assert.Equal(t, entity.AccionEditar, v.Activos[0].TipoAccion)

	assert.Equal(t, fiber.StatusNotFound, e.hacer(t, http.MethodPut, "/api/tipos-documento/"+e.cc.String(), map[string]any{"nombre": "X"}).StatusCode,
		"solo se editan registros activos")
}

func TestPanel_EdicionRechazadaNoAlteraLaVista(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	v := leer[panel.Vista[entity.Rol]](t, e.hacer(t, http.MethodGet, "/api/roles", nil))
	var id entity.ID
	for _, r := range v.Activos {
		if r.Nombre == "Administrador" {
			id = r.ID
		}
	}
	require.NotEmpty(t, id)

	resp := e.hacer(t, http.MethodPut, "/api/roles/"+id.String(),
		map[string]any{"nombre": "X", "permisos": []string{entity.PermisoEliminarRoles}, "estado": false})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, leer[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, e.backend.Llamadas(http.MethodPut, "/roles/"+id.String()))

	v = leer[panel.Vista[entity.Rol]](t, e.hacer(t, http.MethodGet, "/api/roles/vista", nil))
	require.Len(t, v.Activos, 2)
	assert.Empty(t, v.Inactivos)
	for _, r := range v.Activos {
		if r.ID == id {
			assert.Equal(t, "Administrador", r.Nombre)
			assert.True(t, r.Activo())
			assert.Equal(t, entity.CatalogoPermisos(), r.Permisos)
		}
	}
}

func TestPanel_EliminarYRestaurarConConfirmacion(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	v := leer[vistaTipos](t, e.hacer(t, http.MethodGet, "/api/tipos-documento", nil))
	id := v.Activos[0].ID.String()

	resp := e.hacer(t, http.MethodDelete, "/api/tipos-documento/"+id, nil)
	require.Equal(t, fiber.StatusPreconditionRequired, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeConfirmationRequired, body.Code)
	assert.Equal(t, "¿Deseas marcar este tipo de documento como inactivo?", body.Confirmacion)
	assert.Zero(t, e.backend.Llamadas(http.MethodPut, "/document-types/"+id))

	resp = e.hacer(t, http.MethodDelete, "/api/tipos-documento/"+id+"?confirmar=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v = leer[vistaTipos](t, resp)
	assert.Empty(t, v.Activos)
	assert.Len(t, v.Inactivos, 2)

	resp = e.hacer(t, http.MethodPost, "/api/tipos-documento/"+id+"/restaurar?confirmar=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v = leer[vistaTipos](t, resp)
	require.Len(t, v.Activos, 1)
	assert.Equal(t, id, v.Activos[0].ID.String())
}

func TestPanel_ErrorDelBackendConservaMensaje(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)
	e.backend.Fallar(http.MethodPost, "/roles", fiber.StatusConflict, "El rol ya existe")

	resp := e.hacer(t, http.MethodPost, "/api/roles", map[string]any{"nombre": "Soporte", "permisos": []string{entity.PermisoVerRoles}})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := leer[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeConflict, body.Code)
	assert.Equal(t, "El rol ya existe", body.Message)
}

func TestPanel_ErrorDelBackendSinMensaje(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)
	e.backend.Fallar(http.MethodPost, "/roles", fiber.StatusInternalServerError, "")

	resp := e.hacer(t, http.MethodPost, "/api/roles", map[string]any{"nombre": "Soporte"})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Error al guardar rol", leer[dto.ErrorResponse](t, resp).Message)
}

func TestPanel_UsuariosConReferencias(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	resp := e.hacer(t, http.MethodGet, "/api/usuarios", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := leer[panel.Vista[entity.Usuario]](t, resp)
	require.Len(t, v.Activos, 2)
	for _, u := range v.Activos {
		assert.Empty(t, u.Password)
	}
	assert.Contains(t, v.Referencias, "roles")
	assert.Contains(t, v.Referencias, "tiposDocumento")
}

func TestPanel_Exportar(t *testing.T) {
	e := nuevoEntorno(t)
	e.login(t, adminEmail)

	resp := e.hacer(t, http.MethodGet, "/api/roles/exportar", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}
