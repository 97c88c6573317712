// Package stock contiene la regla del libro de movimientos de estoque (servicio de dominio puro).
package stock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/coleta-api/internal/domain"
	"github.com/jhoicas/coleta-api/internal/domain/entity"
)

// KgScale casas decimales que se guardan para pesos (NUMERIC(_,3)).
const KgScale = 3

// CheckScale rechaza pesos con más decimales de los que la base conserva;
// 0.0001 se guardaría como 0.
func CheckScale(qty decimal.Decimal) error {
	if !qty.Equal(qty.Truncate(KgScale)) {
		return domain.Invalid(fmt.Sprintf("Quantidade admite no máximo %d casas decimais", KgScale))
	}
	return nil
}

// Apply calcula las nuevas cantidades de un lote tras un movimiento.
//
//	IN:     disponible += qty; total += qty
//	OUT:    qty <= disponible, disponible -= qty; total sin cambios
//	ADJUST: disponible = qty (valor absoluto); total sin cambios
func Apply(available, total decimal.Decimal, typ entity.MovementType, qty decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if !qty.IsPositive() {
		return available, total, domain.Invalid("Quantidade deve ser positiva")
	}
	if err := CheckScale(qty); err != nil {
		return available, total, err
	}
	switch typ {
	case entity.MovementIn:
		return available.Add(qty), total.Add(qty), nil
	case entity.MovementOut:
		if qty.GreaterThan(available) {
			return available, total, domain.Insufficient(fmt.Sprintf("Quantidade insuficiente. Disponível: %skg", available.String()))
		}
		return available.Sub(qty), total, nil
	case entity.MovementAdjust:
		return qty, total, nil
	default:
		return available, total, domain.Invalid(fmt.Sprintf("tipo de movimento inválido: %s", typ))
	}
}
