package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("no hay stock suficiente en la ubicación de origen, agregue primero")
	ErrStoreFailure      = errors.New("fallo del almacén de datos")
	ErrNoPendingImport   = errors.New("no se recibieron datos de importación")
	ErrMissingSession    = errors.New("sesión requerida")
)

// ErrSameLocation es un error de validación: errors.Is(ErrSameLocation, ErrInvalidInput) es verdadero.
var ErrSameLocation = fmt.Errorf("%w: no se puede trasladar stock a la misma ubicación, elija otra", ErrInvalidInput)

// ValidationError lista los campos que no cumplen el esquema del payload.
type ValidationError struct {
	Fields   []string
	Messages []string
}

// NewValidationError construye el error a partir de pares campo/mensaje.
func NewValidationError(fields, messages []string) *ValidationError {
	return &ValidationError{Fields: fields, Messages: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Messages, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StoreFailure envuelve el diagnóstico del almacén conservando ambos errores en la cadena.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
