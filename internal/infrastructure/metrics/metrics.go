// Package metrics define las métricas Prometheus de la consola.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "consola"

var (
	// BackendRequestDuration latencia de las llamadas al backend REST.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duración de las llamadas al backend en segundos",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "resource", "status_code"},
	)

	// PanelOperaciones operaciones del ciclo de vida por panel y resultado.
	PanelOperaciones = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "operations_total",
			Help:      "Operaciones de los paneles por entidad, operación y resultado",
		},
		[]string{"entity", "operation", "result"},
	)

	// SesionesActivas 1 si hay un operador autenticado.
	SesionesActivas = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "authenticated",
			Help:      "1 si la consola tiene una sesión autenticada",
		},
	)
)

// Recurso primer segmento de la ruta, sin query; evita cardinalidad por id.
func Recurso(ruta string) string {
	ruta, _, _ = strings.Cut(ruta, "?")
	ruta = strings.Trim(ruta, "/")
	seg, _, _ := strings.Cut(ruta, "/")
	if seg == "" {
		return "root"
	}
	return seg
}
