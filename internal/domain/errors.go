package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrUserNotFound      = errors.New("usuário não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrInsufficientStock = errors.New("quantidade insuficiente")
)

// Error lleva el mensaje exacto para el usuario y la categoría (uno de los Err* de arriba).
// errors.Is(err, domain.ErrNotFound) funciona vía Unwrap.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound entidad inexistente o de otra organización.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

// Invalid entrada mal formada o incompleta.
func Invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Msg: msg} }

// Conflict operación contra una entidad en estado incorrecto.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Msg: msg} }

// Conflictf igual que Conflict con formato.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// Insufficient salida mayor que lo disponible en el lote.
func Insufficient(msg string) error { return &Error{Kind: ErrInsufficientStock, Msg: msg} }

// Message devuelve el texto para el usuario: el Msg de un *Error o el texto del sentinel.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return err.Error()
}
