// Package testutil backend REST en memoria para pruebas de integración de la consola.
package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
	pkgjwt "github.com/jhoicas/consola-admin/pkg/jwt"
)

// SecretoJWT firma de los tokens emitidos por el backend de prueba.
const SecretoJWT = "secreto-backend-pruebas"

// Backend servidor HTTP con /auth/login, /usuarios, /roles y /document-types.
type Backend struct {
	URL string

	srv *httptest.Server

	mu          sync.Mutex
	colecciones map[string][]map[string]any
	fallos      map[string]falla
	llamadas    map[string]int
}

type falla struct {
	status  int
	mensaje string
}

// NuevoBackend levanta el servidor y lo cierra al terminar la prueba.
func NuevoBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		colecciones: map[string][]map[string]any{
			"usuarios":       {},
			"roles":          {},
			"document-types": {},
		},
		fallos:   map[string]falla{},
		llamadas: map[string]int{},
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(b.inyectarFallos)
	app.Post("/auth/login", b.login)
	protegido := app.Group("/", b.requerirToken)
	for nombre := range b.colecciones {
		col := nombre
		protegido.Get("/"+col, func(c *fiber.Ctx) error { return b.listar(c, col) })
		protegido.Post("/"+col, func(c *fiber.Ctx) error { return b.crear(c, col) })
		protegido.Put("/"+col+"/:id", func(c *fiber.Ctx) error { return b.reemplazar(c, col) })
	}

	b.srv = httptest.NewServer(adaptor.FiberApp(app))
	b.URL = b.srv.URL
	t.Cleanup(b.srv.Close)
	return b
}

// ── Datos ─────────────────────────────────────────────────────────────────────

// SembrarRol agrega un rol y devuelve su id.
func (b *Backend) SembrarRol(r entity.Rol) entity.ID {
	return b.sembrar("roles", r)
}

// SembrarTipoDocumento agrega un tipo de documento y devuelve su id.
func (b *Backend) SembrarTipoDocumento(td entity.TipoDocumento) entity.ID {
	return b.sembrar("document-types", td)
}

// SembrarUsuario agrega un usuario (password en claro) y devuelve su id.
func (b *Backend) SembrarUsuario(u entity.Usuario) entity.ID {
	return b.sembrar("usuarios", u)
}

// Registros copia de la colección tal como está en el backend (sin passwords).
func (b *Backend) Registros(col string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]map[string]any, 0, len(b.colecciones[col]))
	for _, r := range b.colecciones[col] {
		out = append(out, publico(r))
	}
	return out
}

// Fallar hace que las peticiones "METODO /ruta" respondan con status y mensaje.
// mensaje vacío responde sin cuerpo "message".
func (b *Backend) Fallar(metodo, ruta string, status int, mensaje string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fallos[metodo+" "+ruta] = falla{status: status, mensaje: mensaje}
}

// Llamadas cantidad de peticiones "METODO /ruta" recibidas.
func (b *Backend) Llamadas(metodo, ruta string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.llamadas[metodo+" "+ruta]
}

func (b *Backend) sembrar(col string, v any) entity.ID {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var reg map[string]any
	if err := json.Unmarshal(raw, &reg); err != nil {
		panic(err)
	}
	id := uuid.NewString()
	reg["id"] = id
	if _, ok := reg["estado"]; !ok {
		reg["estado"] = true
	}
	if err := hashPassword(reg, nil); err != nil {
		panic(err)
	}
	b.mu.Lock()
	b.colecciones[col] = append(b.colecciones[col], reg)
	b.mu.Unlock()
	return entity.ID(id)
}

// ── Handlers ──────────────────────────────────────────────────────────────────

func (b *Backend) inyectarFallos(c *fiber.Ctx) error {
	clave := c.Method() + " " + c.Path()
	b.mu.Lock()
	b.llamadas[clave]++
	f, ok := b.fallos[clave]
	b.mu.Unlock()
	if !ok {
		return c.Next()
	}
	if f.mensaje == "" {
		return c.SendStatus(f.status)
	}
	return c.Status(f.status).JSON(fiber.Map{"message": f.mensaje})
}

func (b *Backend) requerirToken(c *fiber.Ctx) error {
	tok, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token requerido"})
	}
	if _, err := pkgjwt.Parse(SecretoJWT, tok); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token inválido"})
	}
	return c.Next()
}

func (b *Backend) login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cuerpo inválido"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.colecciones["usuarios"] {
		if !strings.EqualFold(texto(u["email"]), in.Email) || u["estado"] == false {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(texto(u["password"])), []byte(in.Password)) != nil {
			break
		}
		rol := b.buscarLocked("roles", texto(u["rolId"]))
		permisos := []string{}
		if rol != nil {
			if ps, ok := rol["permisos"].([]any); ok {
				for _, p := range ps {
					permisos = append(permisos, texto(p))
				}
			}
		}
		tok, err := pkgjwt.Generate(SecretoJWT, pkgjwt.Datos{
			UserID:   texto(u["id"]),
			Email:    texto(u["email"]),
			RolID:    texto(u["rolId"]),
			Permisos: permisos,
		}, "backend-pruebas", 60)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		usuario := fiber.Map{
			"id":        u["id"],
			"nombres":   u["nombres"],
			"apellidos": u["apellidos"],
			"email":     u["email"],
		}
		if rol != nil {
			usuario["rol"] = fiber.Map{"id": rol["id"], "nombre": rol["nombre"], "permisos": permisos}
		}
		return c.JSON(fiber.Map{"token": tok, "usuario": usuario})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Credenciales inválidas"})
}

func (b *Backend) listar(c *fiber.Ctx, col string) error {
	soloActivos := c.Query("estado") == "true"
	b.mu.Lock()
	lista := make([]map[string]any, 0, len(b.colecciones[col]))
	for _, r := range b.colecciones[col] {
		if soloActivos && r["estado"] == false {
			continue
		}
		lista = append(lista, publico(r))
	}
	b.mu.Unlock()

	if col == "usuarios" {
		return c.JSON(fiber.Map{"usuarios": lista})
	}
	return c.JSON(fiber.Map{"data": lista})
}

func (b *Backend) crear(c *fiber.Ctx, col string) error {
	var reg map[string]any
	if err := json.Unmarshal(c.Body(), &reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cuerpo inválido"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if col == "usuarios" && b.emailEnUsoLocked(texto(reg["email"]), "") {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "El email ya está registrado"})
	}
	if err := hashPassword(reg, nil); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	reg["id"] = uuid.NewString()
	if _, ok := reg["createdAt"]; !ok {
		reg["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	b.colecciones[col] = append(b.colecciones[col], reg)
	return c.Status(fiber.StatusCreated).JSON(publico(reg))
}

func (b *Backend) reemplazar(c *fiber.Ctx, col string) error {
	id := c.Params("id")
	var reg map[string]any
	if err := json.Unmarshal(c.Body(), &reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cuerpo inválido"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, actual := range b.colecciones[col] {
		if texto(actual["id"]) != id {
			continue
		}
		if col == "usuarios" && b.emailEnUsoLocked(texto(reg["email"]), id) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "El email ya está registrado"})
		}
		if err := hashPassword(reg, actual); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		reg["id"] = id
		b.colecciones[col][i] = reg
		return c.JSON(publico(reg))
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Registro no encontrado"})
}

// ── Internos ──────────────────────────────────────────────────────────────────

func (b *Backend) buscarLocked(col, id string) map[string]any {
	for _, r := range b.colecciones[col] {
		if texto(r["id"]) == id {
			return r
		}
	}
	return nil
}

func (b *Backend) emailEnUsoLocked(email, excepto string) bool {
	for _, u := range b.colecciones["usuarios"] {
		if texto(u["id"]) != excepto && email != "" && strings.EqualFold(texto(u["email"]), email) {
			return true
		}
	}
	return false
}

// hashPassword reemplaza el password en claro por su hash; vacío conserva el anterior.
func hashPassword(reg, anterior map[string]any) error {
	pw := texto(reg["password"])
	if pw == "" {
		delete(reg, "password")
		if anterior != nil {
			if h, ok := anterior["password"]; ok {
				reg["password"] = h
			}
		}
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		return err
	}
	reg["password"] = string(h)
	return nil
}

func publico(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if k != "password" {
			out[k] = v
		}
	}
	return out
}

func texto(v any) string {
	s, _ := v.(string)
	return s
}
