package almacen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jhoicas/consola-admin/internal/application/ports"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

var _ ports.AlmacenSesion = (*Archivo)(nil)

// Archivo almacén en un archivo JSON {clave: valor}. Varias consolas pueden compartir
// el mismo archivo; cada escritura reemplaza el archivo completo con un rename atómico.
type Archivo struct {
	ruta string
	mu   sync.Mutex
	log  *logger.Logger
}

// NewArchivo crea el directorio contenedor si no existe.
func NewArchivo(ruta string, log *logger.Logger) (*Archivo, error) {
	if err := os.MkdirAll(filepath.Dir(ruta), 0o700); err != nil {
		return nil, fmt.Errorf("almacen archivo: crear directorio: %w", err)
	}
	return &Archivo{ruta: ruta, log: log.Componente("almacen_archivo")}, nil
}

func (a *Archivo) Leer(_ context.Context, clave string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	valores, err := a.leerTodo()
	if err != nil {
		return "", false, err
	}
	v, ok := valores[clave]
	return v, ok, nil
}

func (a *Archivo) Escribir(_ context.Context, nuevos map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	valores := a.leerOVacio()
	for c, v := range nuevos {
		valores[c] = v
	}
	return a.escribirTodo(valores)
}

func (a *Archivo) Borrar(_ context.Context, claves ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	valores := a.leerOVacio()
	for _, c := range claves {
		delete(valores, c)
	}
	return a.escribirTodo(valores)
}

// Observar vigila el directorio (no el archivo: el rename cambia el inodo).
func (a *Archivo) Observar(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("almacen archivo: watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(a.ruta)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("almacen archivo: vigilar %s: %w", a.ruta, err)
	}

	ch := make(chan struct{}, 1)
	nombre := filepath.Base(a.ruta)
	go func() {
		defer close(ch)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != nombre {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				a.log.Warn().Err(err).Str("path", a.ruta).Msg("error vigilando el almacén de sesión")
			}
		}
	}()
	return ch, nil
}

func (a *Archivo) Close() error { return nil }

func (a *Archivo) leerTodo() (map[string]string, error) {
	raw, err := os.ReadFile(a.ruta)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("almacen archivo: leer: %w", err)
	}
	valores := map[string]string{}
	if len(raw) == 0 {
		return valores, nil
	}
	if err := json.Unmarshal(raw, &valores); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupto, a.ruta, err)
	}
	return valores, nil
}

// leerOVacio un archivo corrupto se reemplaza en la siguiente escritura.
func (a *Archivo) leerOVacio() map[string]string {
	valores, err := a.leerTodo()
	if err != nil {
		a.log.Warn().Err(err).Msg("se descarta el contenido del almacén de sesión")
		return map[string]string{}
	}
	return valores
}

func (a *Archivo) escribirTodo(valores map[string]string) error {
	raw, err := json.MarshalIndent(valores, "", "  ")
	if err != nil {
		return fmt.Errorf("almacen archivo: serializar: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(a.ruta), ".sesion-*.tmp")
	if err != nil {
		return fmt.Errorf("almacen archivo: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("almacen archivo: escribir: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("almacen archivo: permisos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("almacen archivo: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.ruta); err != nil {
		return fmt.Errorf("almacen archivo: reemplazar: %w", err)
	}
	return nil
}
