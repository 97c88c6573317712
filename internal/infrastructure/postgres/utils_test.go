package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/coleta-api/internal/domain"
)

func TestWriteErr(t *testing.T) {
	cases := []struct {
		name string
		code string
		want error
	}{
		{"unique", "23505", domain.ErrConflict},
		{"foreign key", "23503", domain.ErrConflict},
		{"check", "23514", domain.ErrInvalidInput},
		{"uuid inválido", "22P02", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := writeErr("insert items", &pgconn.PgError{Code: tc.code}, "Item repetido")
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.NoError(t, writeErr("insert items", nil, ""))
	other := errors.New("conn reset")
	assert.ErrorIs(t, writeErr("insert items", other, ""), other)
}
