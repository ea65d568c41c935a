package dto

import "github.com/jhoicas/consola-admin/internal/domain/entity"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Campos errores por campo de un formulario (code VALIDATION).
	Campos map[string]string `json:"campos,omitempty"`
	// Duplicado registro inactivo con la misma clave natural (code DUPLICATE).
	Duplicado any `json:"duplicado,omitempty"`
	// Confirmacion pregunta a confirmar con ?confirmar=true (code CONFIRMATION_REQUIRED).
	Confirmacion string `json:"confirmacion,omitempty"`
}

// LoginRequest credenciales del operador.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SesionResponse estado de la sesión de la consola.
type SesionResponse struct {
	Autenticado bool              `json:"autenticado"`
	Usuario     *entity.Identidad `json:"usuario,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// PermisosResponse catálogo fijo y permisos de la sesión.
type PermisosResponse struct {
	Catalogo []string `json:"catalogo"`
	Sesion   []string `json:"sesion"`
}

// HealthResponse estado del proceso.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Autenticado bool   `json:"autenticado"`
}
