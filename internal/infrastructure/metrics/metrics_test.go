package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

func TestOperation_ResultadoPorTipoDeError(t *testing.T) {
	m := New()
	m.Operation("stock.record_movement", nil)
	m.Operation("stock.record_movement", domain.Insufficient("Quantidade insuficiente"))
	m.Operation("stock.record_movement", domain.Insufficient("Quantidade insuficiente"))
	m.Operation("runs.start", domain.Conflict("x"))
	m.Operation("runs.start", errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("stock.record_movement", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("stock.record_movement", "insufficient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("runs.start", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("runs.start", "error")))
}

func TestStockMoved_AcumulaKg(t *testing.T) {
	m := New()
	m.StockMoved(entity.MovementIn, decimal.RequireFromString("12.5"))
	m.StockMoved(entity.MovementIn, decimal.NewFromInt(7))
	m.StockMoved(entity.MovementOut, decimal.NewFromInt(3))

	assert.InDelta(t, 19.5, testutil.ToFloat64(m.stockKg.WithLabelValues("IN")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m.stockKg.WithLabelValues("OUT")), 1e-9)
}

func TestObserveHTTP_Registra(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/v1/runs", 200, 30*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration, "coleta_http_request_duration_seconds"))
}
