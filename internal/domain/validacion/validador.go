package validacion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/consola-admin/internal/domain/entity"
)

// regla etiqueta visible del campo, etiquetas de validator y mensajes fijos por etiqueta.
type regla struct {
	etiqueta string
	tags     string
	fijos    map[string]string
}

var reglas = map[string]regla{
	"nombres":         {etiqueta: "Nombres", tags: "requerido,longitud=2-50"},
	"apellidos":       {etiqueta: "Apellidos", tags: "requerido,longitud=2-50"},
	"email":           {etiqueta: "Email", tags: "requerido,correo", fijos: map[string]string{"correo": "Email no es válido"}},
	"numeroDocumento": {etiqueta: "Número de documento", tags: "requerido,documento", fijos: map[string]string{"documento": "Número de documento no válido"}},
	"telefono":        {etiqueta: "Teléfono", tags: "requerido,telefono", fijos: map[string]string{"telefono": "Teléfono no válido (7-10 dígitos)"}},
	"fechaNacimiento": {etiqueta: "Fecha de nacimiento", tags: "requerido,fecha,mayoredad", fijos: map[string]string{"fecha": "Fecha no válida", "mayoredad": "Debe ser mayor de 18 años"}},
	"codigo":          {etiqueta: "Código", tags: "requerido,longitud=1-10"},
	"nombre":          {etiqueta: "Nombre", tags: "requerido,longitud=2-50"},
	"password":        {etiqueta: "Contraseña", tags: "requerido,min=6"},
	"rolId":           {etiqueta: "Rol", tags: "requerido"},
	"tipoDocumentoId": {etiqueta: "Tipo de documento", tags: "requerido"},
	"genero":          {etiqueta: "Género", tags: "requerido,oneof=Masculino Femenino Otro", fijos: map[string]string{"oneof": "Género no válido"}},
}

// Validador ejecuta las reglas de campo. Es seguro para uso concurrente.
type Validador struct {
	v     *validator.Validate
	ahora func() time.Time
}

// Opcion configura el Validador.
type Opcion func(*Validador)

// ConReloj fija el reloj usado por la regla de mayoría de edad.
func ConReloj(ahora func() time.Time) Opcion {
	return func(val *Validador) { val.ahora = ahora }
}

// New construye el validador con las etiquetas propias registradas.
func New(opts ...Opcion) *Validador {
	val := &Validador{v: validator.New(), ahora: time.Now}
	for _, o := range opts {
		o(val)
	}
	val.registrar()
	return val
}

func (val *Validador) registrar() {
	registrar := func(tag string, fn func(s string, param string) bool) {
		err := val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String(), fl.Param())
		})
		if err != nil {
			panic(fmt.Sprintf("validacion: registrar %q: %v", tag, err))
		}
	}
	registrar("requerido", func(s, _ string) bool { return strings.TrimSpace(s) != "" })
	registrar("longitud", func(s, param string) bool {
		if s == "" {
			return true
		}
		minimo, maximo := rango(param)
		n := longitud(s)
		return n >= minimo && n <= maximo
	})
	registrar("correo", func(s, _ string) bool { return EsEmailValido(s) })
	registrar("telefono", func(s, _ string) bool { return EsTelefonoValido(s) })
	registrar("documento", func(s, _ string) bool { return EsNumeroDocumentoValido(s) })
	registrar("fecha", func(s, _ string) bool { return EsFechaValida(s) })
	registrar("mayoredad", func(s, _ string) bool { return EsMayorDeEdad(s, val.ahora()) })
	registrar("permiso", func(s, _ string) bool { return entity.EsPermisoValido(s) })
}

// Campo valida un valor con la regla del campo nombrado. Campos sin regla son válidos.
func (val *Validador) Campo(nombre, valor string) string {
	r, ok := reglas[nombre]
	if !ok {
		return ""
	}
	err := val.v.Var(valor, r.tags)
	if err == nil {
		return ""
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return r.mensaje(ve[0].Tag(), ve[0].Param(), valor)
	}
	return r.etiqueta + " no es válido"
}

// Validar ejecuta el subconjunto de campos indicado sobre el formulario.
// La ausencia de un campo en el mapa resultante significa que es válido.
func (val *Validador) Validar(form map[string]string, campos []string) map[string]string {
	errores := make(map[string]string)
	for _, c := range campos {
		if msg := val.Campo(c, form[c]); msg != "" {
			errores[c] = msg
		}
	}
	return errores
}

// Permisos valida que cada permiso pertenezca al catálogo.
func (val *Validador) Permisos(permisos []string) string {
	for _, p := range permisos {
		if err := val.v.Var(p, "permiso"); err != nil {
			return "Permiso desconocido: " + p
		}
	}
	return ""
}

func (r regla) mensaje(tag, param, valor string) string {
	if m, ok := r.fijos[tag]; ok {
		return m
	}
	switch tag {
	case "requerido":
		return r.etiqueta + " es requerido"
	case "longitud":
		minimo, maximo := rango(param)
		if longitud(valor) < minimo {
			return fmt.Sprintf("%s debe tener mínimo %d caracteres", r.etiqueta, minimo)
		}
		return fmt.Sprintf("%s debe tener máximo %d caracteres", r.etiqueta, maximo)
	case "min":
		return fmt.Sprintf("%s debe tener mínimo %s caracteres", r.etiqueta, param)
	}
	return r.etiqueta + " no es válido"
}

// rango interpreta "2-50".
func rango(param string) (int, int) {
	a, b, _ := strings.Cut(param, "-")
	minimo, _ := strconv.Atoi(a)
	maximo, _ := strconv.Atoi(b)
	return minimo, maximo
}

// CamposUsuario campos obligatorios del formulario de usuario; la contraseña solo al crear.
func CamposUsuario(creando bool) []string {
	campos := []string{
		"nombres", "apellidos", "email", "tipoDocumentoId", "numeroDocumento",
		"genero", "rolId", "telefono", "fechaNacimiento",
	}
	if creando {
		campos = append(campos, "password")
	}
	return campos
}

// CamposRol campos obligatorios del formulario de rol.
func CamposRol() []string { return []string{"nombre"} }

// CamposTipoDocumento campos obligatorios del formulario de tipo de documento.
func CamposTipoDocumento() []string { return []string{"codigo", "nombre"} }

// CamposLogin campos del formulario de inicio de sesión.
func CamposLogin() []string { return []string{"email", "password"} }
