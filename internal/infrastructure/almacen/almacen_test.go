package almacen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/pkg/config"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// probarContrato comportamiento común a todos los drivers.
func probarContrato(t *testing.T, a ports.AlmacenSesion) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := a.Leer(ctx, "mp1_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Escribir(ctx, map[string]string{"mp1_token": "tk", "mp1_user": `{"email":"a@b.co"}`}))

	v, ok, err := a.Leer(ctx, "mp1_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tk", v)

	require.NoError(t, a.Escribir(ctx, map[string]string{"mp1_token": "tk2"}))
	v, _, err = a.Leer(ctx, "mp1_token")
	require.NoError(t, err)
	assert.Equal(t, "tk2", v)
	v, ok, err = a.Leer(ctx, "mp1_user")
	require.NoError(t, err)
	assert.True(t, ok, "las claves no escritas se conservan")
	assert.Equal(t, `{"email":"a@b.co"}`, v)

	require.NoError(t, a.Borrar(ctx, "mp1_token", "mp1_user"))
	_, ok, err = a.Leer(ctx, "mp1_user")
	require.NoError(t, err)
	assert.False(t, ok)
}

// esperarAviso falla si no llega un aviso en el plazo.
func esperarAviso(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.True(t, ok, "canal cerrado antes del aviso")
	case <-time.After(3 * time.Second):
		t.Fatal("no llegó el aviso de cambio")
	}
}

func TestMemoria_Contrato(t *testing.T) {
	probarContrato(t, NewMemoria())
}

func TestMemoria_Observar(t *testing.T) {
	m := NewMemoria()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Observar(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Escribir(ctx, map[string]string{"k": "v"}))
	esperarAviso(t, ch)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMemoria_CloseCierraObservadores(t *testing.T) {
	m := NewMemoria()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := m.Observar(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, ok := <-ch
	assert.False(t, ok)
}

func TestArchivo_Contrato(t *testing.T) {
	a, err := NewArchivo(filepath.Join(t.TempDir(), "sub", "sesion.json"), logger.Nop())
	require.NoError(t, err)
	probarContrato(t, a)
}

func TestArchivo_PersisteEntreInstancias(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "sesion.json")
	ctx := context.Background()

	a, err := NewArchivo(ruta, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, a.Escribir(ctx, map[string]string{"mp1_token": "tk"}))

	b, err := NewArchivo(ruta, logger.Nop())
	require.NoError(t, err)
	v, ok, err := b.Leer(ctx, "mp1_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tk", v)

	info, err := os.Stat(ruta)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestArchivo_Corrupto(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "sesion.json")
	require.NoError(t, os.WriteFile(ruta, []byte("{no es json"), 0o600))
	ctx := context.Background()

	a, err := NewArchivo(ruta, logger.Nop())
	require.NoError(t, err)

	_, _, err = a.Leer(ctx, "mp1_token")
	assert.ErrorIs(t, err, ErrCorrupto)

	require.NoError(t, a.Borrar(ctx, "mp1_token", "mp1_user"))
	_, ok, err := a.Leer(ctx, "mp1_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArchivo_ObservarCambiosDeOtroProceso(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "sesion.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observador, err := NewArchivo(ruta, logger.Nop())
	require.NoError(t, err)
	ch, err := observador.Observar(ctx)
	require.NoError(t, err)

	otro, err := NewArchivo(ruta, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, otro.Escribir(ctx, map[string]string{"mp1_token": "tk"}))
	esperarAviso(t, ch)

	for len(ch) > 0 {
		<-ch
	}
	require.NoError(t, otro.Borrar(ctx, "mp1_token"))
	esperarAviso(t, ch)
}

func TestAbrir(t *testing.T) {
	ctx := context.Background()

	a, err := Abrir(ctx, config.SessionConfig{Driver: config.SessionMemoria}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memoria{}, a)

	a, err = Abrir(ctx, config.SessionConfig{Driver: config.SessionArchivo, Path: filepath.Join(t.TempDir(), "s.json")}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Archivo{}, a)

	_, err = Abrir(ctx, config.SessionConfig{Driver: "otro"}, logger.Nop())
	assert.Error(t, err)
}

func TestRedis_Contrato(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := NewRedis(ctx, config.SessionConfig{RedisAddr: addr, Prefix: "test-" + t.Name()}, logger.Nop())
	require.NoError(t, err)
	defer r.Close()

	ch, err := r.Observar(ctx)
	require.NoError(t, err)
	probarContrato(t, r)
	esperarAviso(t, ch)
}

func TestPostgres_Contrato(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := NewPostgres(ctx, config.SessionConfig{DatabaseURL: url, Prefix: "test-" + t.Name()}, logger.Nop())
	require.NoError(t, err)
	defer p.Close()

	ch, err := p.Observar(ctx)
	require.NoError(t, err)
	probarContrato(t, p)
	esperarAviso(t, ch)
}
