package almacen

import (
	"context"
	"sync"

	"github.com/jhoicas/consola-admin/internal/application/ports"
)

var _ ports.AlmacenSesion = (*Memoria)(nil)

// Memoria almacén en proceso; la sesión no sobrevive al proceso.
type Memoria struct {
	mu      sync.RWMutex
	valores map[string]string
	cambios *difusor
}

// NewMemoria almacén vacío.
func NewMemoria() *Memoria {
	return &Memoria{valores: make(map[string]string), cambios: newDifusor()}
}

func (m *Memoria) Leer(_ context.Context, clave string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.valores[clave]
	return v, ok, nil
}

func (m *Memoria) Escribir(_ context.Context, valores map[string]string) error {
	m.mu.Lock()
	for c, v := range valores {
		m.valores[c] = v
	}
	m.mu.Unlock()
	m.cambios.avisar()
	return nil
}

func (m *Memoria) Borrar(_ context.Context, claves ...string) error {
	m.mu.Lock()
	for _, c := range claves {
		delete(m.valores, c)
	}
	m.mu.Unlock()
	m.cambios.avisar()
	return nil
}

func (m *Memoria) Observar(ctx context.Context) (<-chan struct{}, error) {
	return m.cambios.suscribir(ctx), nil
}

func (m *Memoria) Close() error {
	m.cambios.cerrar()
	return nil
}
