package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/consola-admin/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "backend-test"
)

var testDatos = pkgjwt.Datos{
	UserID:   "00000000-0000-0000-0000-000000000001",
	Email:    "admin@example.com",
	RolID:    "1",
	Permisos: []string{"ver_usuarios", "crear_usuarios"},
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testDatos, testIssuer, 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testDatos.UserID, claims.Subject)
	assert.Equal(t, testDatos.Email, claims.Email)
	assert.Equal(t, testDatos.Permisos, claims.Permisos)
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testDatos, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testDatos, testIssuer, 60)
	assert.Error(t, err)
}

func TestVencimiento(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testDatos, testIssuer, -1)
	require.NoError(t, err)

	exp, ok := pkgjwt.Vencimiento(tok)
	require.True(t, ok)
	assert.True(t, exp.Before(time.Now()))
	assert.True(t, pkgjwt.Vencido(tok, time.Now()))

	vigente, err := pkgjwt.Generate(testSecret, testDatos, testIssuer, 60)
	require.NoError(t, err)
	assert.False(t, pkgjwt.Vencido(vigente, time.Now()))
}

func TestVencimiento_TokenOpaco(t *testing.T) {
	_, ok := pkgjwt.Vencimiento("demo-token")
	assert.False(t, ok)
	assert.False(t, pkgjwt.Vencido("demo-token", time.Now()), "los tokens opacos no vencen")
}
