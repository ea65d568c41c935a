package rest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/internal/domain/entity"
	"github.com/jhoicas/consola-admin/internal/infrastructure/api"
)

var _ ports.Autenticador = (*AuthRepo)(nil)

// ErrRespuestaLogin el backend respondió 2xx sin token o sin usuario.
var ErrRespuestaLogin = errors.New("respuesta de login incompleta")

// AuthRepo autenticación contra POST /auth/login.
type AuthRepo struct {
	cliente *api.Client
}

// NewAuthRepository construye el adaptador de autenticación.
func NewAuthRepository(c *api.Client) *AuthRepo {
	return &AuthRepo{cliente: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// usuarioLogin perfil tal como lo devuelve el backend; el rol puede venir anidado.
type usuarioLogin struct {
	entity.Identidad
	Rol *struct {
		ID       entity.ID `json:"id"`
		Nombre   string    `json:"nombre"`
		Permisos []string  `json:"permisos"`
	} `json:"rol,omitempty"`
}

type loginResponse struct {
	Token   string        `json:"token"`
	Usuario *usuarioLogin `json:"usuario"`
	User    *usuarioLogin `json:"user"`
}

// IniciarSesion devuelve el token y la identidad normalizada.
func (r *AuthRepo) IniciarSesion(ctx context.Context, email, password string) (string, *entity.Identidad, error) {
	var resp loginResponse
	if err := r.cliente.Post(ctx, RutaLogin, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", nil, err
	}
	u := resp.Usuario
	if u == nil {
		u = resp.User
	}
	if resp.Token == "" || u == nil {
		return "", nil, fmt.Errorf("login: %w", ErrRespuestaLogin)
	}

	id := u.Identidad
	if u.Rol != nil {
		if id.RolID == "" {
			id.RolID = u.Rol.ID
		}
		if id.RolNombre == "" {
			id.RolNombre = u.Rol.Nombre
		}
		if len(id.Permisos) == 0 {
			id.Permisos = u.Rol.Permisos
		}
	}
	if id.Permisos == nil {
		id.Permisos = []string{}
	}
	return resp.Token, &id, nil
}
