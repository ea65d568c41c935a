// Package api cliente HTTP del backend REST que administra la consola.
//
// Contrato uniforme: cada llamada es un único intento, sin reintentos ni backoff;
// la cancelación llega solo por context. Un estado no exitoso se normaliza a *Error
// con el mensaje del servidor o uno genérico.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/consola-admin/internal/domain"
	"github.com/jhoicas/consola-admin/internal/infrastructure/metrics"
	"github.com/jhoicas/consola-admin/pkg/logger"
)

// MensajePorDefecto se usa cuando el backend no envía "message".
const MensajePorDefecto = "Error en la petición"

// maxRespuesta límite de lectura de una respuesta del backend.
const maxRespuesta = 8 << 20

// TokenSource provee el bearer token vigente; "" si no hay sesión.
type TokenSource interface {
	Token() string
}

// Error respuesta no exitosa del backend. Mensaje vacío si el backend no envió "message".
type Error struct {
	Status  int
	Mensaje string
	Metodo  string
	Ruta    string
}

func (e *Error) Error() string {
	if e.Mensaje == "" {
		return MensajePorDefecto
	}
	return e.Mensaje
}

// MensajeServidor el "message" del backend, "" si no vino.
func (e *Error) MensajeServidor() string { return e.Mensaje }

// StatusCode estado HTTP de la respuesta.
func (e *Error) StatusCode() int { return e.Status }

// Unwrap permite errors.Is contra los errores de dominio según el estado HTTP.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

// Client cliente del backend. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logger.Logger
}

// Opcion configura el Client.
type Opcion func(*Client)

// ConHTTPClient reemplaza el *http.Client (pruebas, transportes propios).
func ConHTTPClient(hc *http.Client) Opcion {
	return func(c *Client) { c.httpClient = hc }
}

// ConTokens fija la fuente del bearer token.
func ConTokens(ts TokenSource) Opcion {
	return func(c *Client) { c.tokens = ts }
}

// New construye el cliente. Sin timeout propio: cada llamada termina cuando termina su context.
func New(baseURL string, log *logger.Logger, opts ...Opcion) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        log.Componente("api"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokens fija la fuente del token después de construir el cliente
// (la sesión depende del cliente para el login y el cliente de la sesión para el token).
func (c *Client) SetTokens(ts TokenSource) { c.tokens = ts }

// Get GET ruta y decodifica la respuesta en out (puede ser nil).
func (c *Client) Get(ctx context.Context, ruta string, out any) error {
	return c.hacer(ctx, http.MethodGet, ruta, nil, out)
}

// Post POST ruta con body JSON.
func (c *Client) Post(ctx context.Context, ruta string, body, out any) error {
	return c.hacer(ctx, http.MethodPost, ruta, body, out)
}

// Put PUT ruta con body JSON.
func (c *Client) Put(ctx context.Context, ruta string, body, out any) error {
	return c.hacer(ctx, http.MethodPut, ruta, body, out)
}

// Delete DELETE ruta.
func (c *Client) Delete(ctx context.Context, ruta string, out any) error {
	return c.hacer(ctx, http.MethodDelete, ruta, nil, out)
}

func (c *Client) hacer(ctx context.Context, metodo, ruta string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: serializar %s %s: %w", metodo, ruta, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.baseURL+ruta, rdr)
	if err != nil {
		return fmt.Errorf("api: crear request %s %s: %w", metodo, ruta, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	inicio := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observar(metodo, ruta, "error", inicio)
		if ctx.Err() != nil {
			return fmt.Errorf("api: %s %s cancelado: %w", metodo, ruta, ctx.Err())
		}
		return fmt.Errorf("api: %s %s: %w", metodo, ruta, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRespuesta))
	c.observar(metodo, ruta, strconv.Itoa(resp.StatusCode), inicio)
	if err != nil {
		return fmt.Errorf("api: leer respuesta %s %s: %w", metodo, ruta, err)
	}

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", metodo).
		Str("path", ruta).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(inicio)).
		Msg("llamada al backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Mensaje: mensajeError(raw), Metodo: metodo, Ruta: ruta}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: respuesta inválida de %s %s: %w", metodo, ruta, err)
	}
	return nil
}

func (c *Client) observar(metodo, ruta, status string, inicio time.Time) {
	metrics.BackendRequestDuration.
		WithLabelValues(metodo, metrics.Recurso(ruta), status).
		Observe(time.Since(inicio).Seconds())
}

// mensajeError toma "message" del cuerpo JSON.
func mensajeError(raw []byte) string {
	var cuerpo struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &cuerpo); err != nil {
		return ""
	}
	return strings.TrimSpace(cuerpo.Message)
}
