// Package validation envuelve go-playground/validator para validar payloads contra sus tags
// `validate:` y devolver mensajes legibles por campo.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError un campo inválido con su mensaje.
type FieldError struct {
	Field   string
	Message string
}

// Validator valida structs usando el nombre JSON de cada campo en los mensajes.
type Validator struct {
	v *validator.Validate
}

// New construye el validador.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida s. Devuelve nil si es válido, o la lista de campos inválidos.
func (val *Validator) Struct(s any) []FieldError {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es requerido", fe.Field())
	case "gte":
		return fmt.Sprintf("%s debe ser >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s debe ser <= %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser > %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s excede el máximo de %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s debe ser distinto de %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
	}
}
