package dto

import (
	"time"

	"github.com/jhoicas/coleta-api/internal/domain"
)

// DateLayout formato de fecha aceptado en query y body.
const DateLayout = "2006-01-02"

// SuccessResponse envoltorio de éxito: {success:true, data}.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// ErrorResponse envoltorio de error: {success:false, error, code}.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// MessageResponse data de operaciones sin entidad de retorno (borrados).
type MessageResponse struct {
	Message string `json:"message"`
}

// DateRangeQuery filtros ?from=YYYY-MM-DD&to=YYYY-MM-DD.
type DateRangeQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// Bounds convierte el rango a instantes UTC: from al inicio del día, to al final (inclusive).
func (q DateRangeQuery) Bounds() (from, to *time.Time, err error) {
	if q.From != "" {
		t, err := ParseDate(q.From)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if q.To != "" {
		t, err := ParseDate(q.To)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// ParseDate interpreta YYYY-MM-DD en UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.Invalid("data inválida, use o formato AAAA-MM-DD: " + s)
	}
	return t, nil
}
