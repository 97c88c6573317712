package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/pkg/validation"
)

type nameRequest struct {
	Name string `json:"name" validate:"required,notblank"`
	Kind string `json:"kind" validate:"omitempty,oneof=A B"`
}

func TestStruct_NotBlankRegistrado(t *testing.T) {
	require.NotPanics(t, func() { _ = validation.Struct(nameRequest{Name: "   "}) })

	err := validation.Struct(nameRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "name é obrigatório", domain.Message(err))

	assert.NoError(t, validation.Struct(nameRequest{Name: "Cooperativa"}))
}

func TestStruct_MensajeConNombreJSON(t *testing.T) {
	err := validation.Struct(nameRequest{Name: "x", Kind: "C"})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "kind deve ser um de: A B", domain.Message(err))
}
