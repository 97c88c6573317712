package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/coleta-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation fila referenciada por otra tabla (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isCheckViolation CHECK de la tabla (23514), p. ej. available_kg >= 0.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

// isInvalidText id que no es un UUID válido (22P02).
func isInvalidText(err error) bool {
	return hasCode(err, "22P02")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// writeErr traduce errores de escritura: unique → Conflict con msg, FK → Conflict genérico,
// CHECK → Invalid.
func writeErr(op string, err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.Conflict(msg)
	case isForeignKeyViolation(err):
		return domain.Conflict("Registro referenciado por outros dados")
	case isCheckViolation(err):
		return domain.Invalid("Valor fora do intervalo permitido")
	case isInvalidText(err):
		return domain.Invalid("Identificador inválido")
	}
	return fmt.Errorf("%s: %w", op, err)
}
