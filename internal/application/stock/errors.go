package stock

import (
	"errors"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/pkg/validation"
)

// storeErr deja pasar los errores de dominio y envuelve el resto como fallo del almacén.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNoPendingImport),
		errors.Is(err, domain.ErrMissingSession):
		return err
	}
	return domain.StoreFailure(op, err)
}

// validate aplica las reglas `validate:` de in y las traduce a *domain.ValidationError.
func validate(v *validation.Validator, in any) error {
	errs := v.Struct(in)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field)
		msgs = append(msgs, fe.Message)
	}
	return domain.NewValidationError(fields, msgs)
}
