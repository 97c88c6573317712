// Package metrics expone contadores Prometheus del flujo operativo y de la API HTTP.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/application/ports"
	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

const namespace = "coleta"

var _ ports.WorkflowMetrics = (*Metrics)(nil)

// Metrics registro propio (no el global) para poder crear varios en tests.
type Metrics struct {
	reg *prometheus.Registry

	operations   *prometheus.CounterVec
	stockKg      *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registra los colectores en un registro nuevo, incluidos los de proceso y runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		// Labels: operation, result (ok, not_found, invalid, conflict, insufficient, error)
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "operations_total",
			Help:      "Operaciones del flujo de coleta por resultado",
		}, []string{"operation", "result"}),
		stockKg: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "moved_kg_total",
			Help:      "Kg movidos en el estoque por tipo de movimiento",
		}, []string{"type"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// Operation cuenta la operación con el resultado derivado del error de dominio.
func (m *Metrics) Operation(name string, err error) {
	m.operations.WithLabelValues(name, result(err)).Inc()
}

// StockMoved acumula los kg del movimiento.
func (m *Metrics) StockMoved(t entity.MovementType, kg decimal.Decimal) {
	m.stockKg.WithLabelValues(string(t)).Add(kg.InexactFloat64())
}

// ObserveHTTP registra la duración de una petición. route es el patrón, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler handler net/http para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry para tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient"
	default:
		return "error"
	}
}
