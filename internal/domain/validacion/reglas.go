// Package validacion contiene los validadores de campos de los formularios de la consola.
//
// Cada regla recibe el valor crudo del campo y devuelve un mensaje legible o "" si es válido.
// Las reglas se montan sobre go-playground/validator con etiquetas propias; los mensajes
// son los que ve el operador en los formularios.
package validacion

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telefonoRe  = regexp.MustCompile(`^[0-9]{7,10}$`)
	documentoRe = regexp.MustCompile(`^[0-9a-zA-Z]{5,20}$`)
	noDigitosRe = regexp.MustCompile(`\D`)
)

// EdadMinima edad mínima exigida para registrar un usuario.
const EdadMinima = 18

// formatosFecha formatos aceptados para fechas de formulario (input date y ISO completo).
var formatosFecha = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// EsEmailValido comprobación permisiva: algo@algo.algo sin espacios.
func EsEmailValido(email string) bool {
	return emailRe.MatchString(email)
}

// EsTelefonoValido elimina todo lo que no sea dígito y exige entre 7 y 10 dígitos.
func EsTelefonoValido(telefono string) bool {
	return telefonoRe.MatchString(noDigitosRe.ReplaceAllString(telefono, ""))
}

// EsNumeroDocumentoValido alfanumérico de 5 a 20 caracteres.
func EsNumeroDocumentoValido(numero string) bool {
	return documentoRe.MatchString(numero)
}

// ParseFecha interpreta una fecha de formulario. Las fechas sin hora se leen como día calendario.
func ParseFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, f := range formatosFecha {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EsFechaValida una fecha vacía se considera válida (la obligatoriedad es otra regla).
func EsFechaValida(s string) bool {
	if s == "" {
		return true
	}
	_, ok := ParseFecha(s)
	return ok
}

// Edad años cumplidos en hoy para alguien nacido en nacimiento.
// Se resta un año si todavía no llega el mes/día del cumpleaños.
func Edad(nacimiento, hoy time.Time) int {
	ny, nm, nd := nacimiento.Date()
	hy, hm, hd := hoy.Date()
	edad := hy - ny
	if hm < nm || (hm == nm && hd < nd) {
		edad--
	}
	return edad
}

// EsMayorDeEdad exactamente 18 años y 0 días cumple. Vacía o ilegible no falla aquí.
func EsMayorDeEdad(fecha string, hoy time.Time) bool {
	if fecha == "" {
		return true
	}
	nacimiento, ok := ParseFecha(fecha)
	if !ok {
		return true
	}
	return Edad(nacimiento, hoy) >= EdadMinima
}

func longitud(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
