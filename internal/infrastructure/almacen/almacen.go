// Package almacen implementaciones durables de ports.AlmacenSesion.
package almacen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/pkg/config"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// ErrCorrupto el contenido persistido no se pudo interpretar.
var ErrCorrupto = errors.New("almacén de sesión corrupto")

// Abrir construye el almacén según SESSION_DRIVER.
func Abrir(ctx context.Context, cfg config.SessionConfig, log *logger.Logger) (ports.AlmacenSesion, error) {
	switch cfg.Driver {
	case config.SessionArchivo:
		return NewArchivo(cfg.Path, log)
	case config.SessionRedis:
		return NewRedis(ctx, cfg, log)
	case config.SessionPostgres:
		return NewPostgres(ctx, cfg, log)
	case config.SessionMemoria:
		return NewMemoria(), nil
	default:
		return nil, fmt.Errorf("almacen: driver desconocido %q", cfg.Driver)
	}
}

// difusor reparte avisos de cambio a los observadores. Los avisos se fusionan:
// un observador lento recibe uno solo aunque haya habido varios cambios.
type difusor struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newDifusor() *difusor {
	return &difusor{subs: make(map[chan struct{}]struct{})}
}

func (d *difusor) suscribir(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	go func() {
		<-ctx.Done()
		d.mu.Lock()
		if _, ok := d.subs[ch]; ok {
			delete(d.subs, ch)
			close(ch)
		}
		d.mu.Unlock()
	}()
	return ch
}

func (d *difusor) avisar() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (d *difusor) cerrar() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subs {
		delete(d.subs, ch)
		close(ch)
	}
}
