// Package validation valida los DTOs de entrada con las etiquetas `validate:"..."`
// usando go-playground/validator y traduce el primer fallo a un error de dominio legible.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/coleta-api/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Usar el nombre JSON del campo en los mensajes.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		panic("registrar validación notblank: " + err.Error())
	}
}

// notBlank rechaza strings compuestos solo por espacios.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct valida v y devuelve domain.ErrInvalidInput con un mensaje por el primer campo inválido.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid(err.Error())
	}
	return domain.Invalid(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s é obrigatório", field)
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s deve ser um UUID válido", field)
	case "min":
		return fmt.Sprintf("%s deve ser no mínimo %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ser no máximo %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s deve ser um email válido", field)
	case "datetime":
		return fmt.Sprintf("%s deve estar no formato %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido", field)
	}
}
